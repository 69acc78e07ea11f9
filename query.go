package staffdb

import (
	"strconv"
	"strings"
)

const (
	eq = iota
	ne
	in
	notIn
	like
	leftLike
	rightLike
	gt
	gte
	lt
	lte
	between
	exist
	notExist
	fuzzy
	hybrid
	must
	should
)

var conditionNames = [...]string{
	eq:        "eq",
	ne:        "ne",
	in:        "in",
	notIn:     "notIn",
	like:      "like",
	leftLike:  "leftLike",
	rightLike: "rightLike",
	gt:        "gt",
	gte:       "gte",
	lt:        "lt",
	lte:       "lte",
	between:   "range",
	exist:     "exist",
	notExist:  "notExist",
	fuzzy:     "fuzzy",
	hybrid:    "hybrid",
	must:      "must",
	should:    "should",
}

type Query struct {
	db          *DB
	table       string
	conditions  []condition
	expressions []string
	index       Index
	limit       limit
	sort        *sortRule
	algorithm   string
	isChild     bool
}

type condition struct {
	kind      int
	criterion SortCriterion
	value     string
	values    []string
	min, max  float64
	distance  int
	// must and should groups
	children []condition
	exprs    []string
}

func (c condition) String() string {
	name := conditionNames[c.kind]
	switch c.kind {
	case in, notIn:
		els := []string{c.criterion.String()}
		for _, v := range c.values {
			els = append(els, strconv.Quote(v))
		}
		return name + "(" + strings.Join(els, ", ") + ")"
	case gt, gte, lt, lte:
		return name + "(" + c.criterion.String() + ", " + strconv.FormatFloat(c.min, 'f', -1, 64) + ")"
	case between:
		return name + "(" + c.criterion.String() + ", " +
			strconv.FormatFloat(c.min, 'f', -1, 64) + ", " + strconv.FormatFloat(c.max, 'f', -1, 64) + ")"
	case exist, notExist:
		return name + "(" + c.criterion.String() + ")"
	case fuzzy:
		return name + "(" + strconv.Quote(c.value) + ", " + strconv.Itoa(c.distance) + ")"
	case must, should:
		var els []string
		for _, v := range c.children {
			els = append(els, v.String())
		}
		els = append(els, c.exprs...)
		return name + "(" + strings.Join(els, ", ") + ")"
	}
	return name + "(" + c.criterion.String() + ", " + strconv.Quote(c.value) + ")"
}

type sortRule struct {
	criterion SortCriterion
	order     SortOrder
}

// Index is the secondary index a query scans instead of the full table.
type Index struct {
	Field  string
	Value  string
	Prefix bool
}

func (c Index) IsEmpty() bool {
	return len(c.Field) <= 0
}

type Explain struct {
	Index      Index
	Conditions []string
	Expr       string
	Sort       string
	Limit      string
}

type Result struct {
	Records []Record
	// Metrics is nil when the query has no sort.
	Metrics *SortingMetrics
}

type limit struct {
	enable bool
	cursor int
	size   int
}

func (c *DB) Query(table string) *Query {
	return &Query{
		db:        c,
		table:     table,
		algorithm: QuickSortName,
	}
}

// Expr starts a sub-query for Must and Should. It has no table, ignores
// sort, limit and index selection, and its terminals return nothing.
func Expr() *Query {
	return &Query{
		isChild: true,
	}
}

// Eq 等于, ignoring case. Uses the field index for name, department and type.
func (c *Query) Eq(criterion SortCriterion, value string) *Query {
	c.conditions = append(c.conditions, condition{kind: eq, criterion: criterion, value: value})
	c.selectIndex(eq, criterion, value)
	return c
}

// Ne 不等于
func (c *Query) Ne(criterion SortCriterion, value string) *Query {
	c.conditions = append(c.conditions, condition{kind: ne, criterion: criterion, value: value})
	return c
}

// Gt 大于, on the numeric projection.
func (c *Query) Gt(criterion SortCriterion, value float64) *Query {
	return c.compare(gt, criterion, value)
}

// Gte 大于或等于
func (c *Query) Gte(criterion SortCriterion, value float64) *Query {
	return c.compare(gte, criterion, value)
}

// Lt 小于
func (c *Query) Lt(criterion SortCriterion, value float64) *Query {
	return c.compare(lt, criterion, value)
}

// Lte 小于或等于
func (c *Query) Lte(criterion SortCriterion, value float64) *Query {
	return c.compare(lte, criterion, value)
}

func (c *Query) compare(kind int, criterion SortCriterion, value float64) *Query {
	c.conditions = append(c.conditions, condition{kind: kind, criterion: criterion, min: value})
	return c
}

// In 包含, ignoring case. Values sharing a prefix scan the field index.
func (c *Query) In(criterion SortCriterion, values ...string) *Query {
	c.conditions = append(c.conditions, condition{kind: in, criterion: criterion, values: values})
	c.selectIndex(in, criterion, values...)
	return c
}

// NotIn 不包含
func (c *Query) NotIn(criterion SortCriterion, values ...string) *Query {
	c.conditions = append(c.conditions, condition{kind: notIn, criterion: criterion, values: values})
	return c
}

// Like 模糊匹配, case-insensitive substring.
func (c *Query) Like(criterion SortCriterion, value string) *Query {
	c.conditions = append(c.conditions, condition{kind: like, criterion: criterion, value: value})
	return c
}

// LeftLike 模糊匹配-具有相同的前缀
// 此方法会走字段索引
func (c *Query) LeftLike(criterion SortCriterion, value string) *Query {
	c.conditions = append(c.conditions, condition{kind: leftLike, criterion: criterion, value: value})
	c.selectIndex(leftLike, criterion, value)
	return c
}

// RightLike 模糊匹配-具有相同的后缀
func (c *Query) RightLike(criterion SortCriterion, value string) *Query {
	c.conditions = append(c.conditions, condition{kind: rightLike, criterion: criterion, value: value})
	return c
}

// Exist keeps records whose field is set: non-empty text for string
// criteria, non-zero for numeric ones.
func (c *Query) Exist(criterion SortCriterion) *Query {
	c.conditions = append(c.conditions, condition{kind: exist, criterion: criterion})
	return c
}

// NotExist is the complement of Exist.
func (c *Query) NotExist(criterion SortCriterion) *Query {
	c.conditions = append(c.conditions, condition{kind: notExist, criterion: criterion})
	return c
}

// Range keeps records whose numeric projection lies in [min, max].
func (c *Query) Range(criterion SortCriterion, min, max float64) *Query {
	c.conditions = append(c.conditions, condition{kind: between, criterion: criterion, min: min, max: max})
	return c
}

// Fuzzy keeps records whose name is within distance edits of term.
func (c *Query) Fuzzy(term string, distance int) *Query {
	c.conditions = append(c.conditions, condition{kind: fuzzy, criterion: ByName, value: term, distance: distance})
	return c
}

func (c *Query) Hybrid(criterion SortCriterion, term string) *Query {
	c.conditions = append(c.conditions, condition{kind: hybrid, criterion: criterion, value: term})
	return c
}

// Where adds an expr-lang filter, see Parser for the variables.
func (c *Query) Where(code string) *Query {
	if len(strings.TrimSpace(code)) > 0 {
		c.expressions = append(c.expressions, `(`+code+`)`)
	}
	return c
}

// Must 交集拼接
func (c *Query) Must(sc *Query) *Query {
	return c.group(must, sc)
}

// Should 并集拼接
func (c *Query) Should(sc *Query) *Query {
	return c.group(should, sc)
}

func (c *Query) group(kind int, sc *Query) *Query {
	if sc == nil || len(sc.conditions)+len(sc.expressions) <= 0 {
		return c
	}
	c.conditions = append(c.conditions, condition{
		kind:     kind,
		children: sc.conditions,
		exprs:    sc.expressions,
	})
	return c
}

func (c *Query) Asc(criterion SortCriterion) *Query {
	return c.Sort(criterion, Ascending)
}

func (c *Query) Desc(criterion SortCriterion) *Query {
	return c.Sort(criterion, Descending)
}

func (c *Query) Sort(criterion SortCriterion, order SortOrder) *Query {
	if c.isChild {
		return c
	}
	c.sort = &sortRule{criterion: criterion, order: order}
	return c
}

// Using picks the sort algorithm by name, see Algorithms.
func (c *Query) Using(algorithm string) *Query {
	if len(algorithm) > 0 && !c.isChild {
		c.algorithm = algorithm
	}
	return c
}

// Limit 分页方法，逻辑和 MySQL 的 Limit 相同，limit 10 或 limit 0,10
func (c *Query) Limit(values ...int) *Query {
	if c.isChild {
		return c
	}
	cursor := 0
	size := 0
	if len(values) > 1 {
		cursor = values[0]
		size = values[1]
	} else if len(values) > 0 {
		size = values[0]
	} else {
		return c
	}
	if cursor < 0 || size < 0 {
		return c
	}
	c.limit.enable = true
	c.limit.cursor = cursor
	c.limit.size = size
	return c
}

// Run executes the query: index or table scan, conditions in the order
// added, expression filter, sort, then limit.
func (c *Query) Run() (Result, error) {
	if c.isChild {
		return Result{Records: make([]Record, 0)}, nil
	}
	rows, err := c.load()
	if err != nil {
		return Result{}, err
	}
	engine := c.db.engine
	for _, cond := range c.conditions {
		rows, err = engine.apply(cond, rows)
		if err != nil {
			return Result{}, err
		}
	}
	if len(c.expressions) > 0 {
		rows, err = NewParser(engine.Projector).Filter(strings.Join(c.expressions, " && "), rows)
		if err != nil {
			return Result{}, err
		}
	}
	var res Result
	if c.sort != nil {
		m := engine.SortWithMetrics(rows, c.sort.criterion, c.sort.order, c.algorithm)
		res.Metrics = &m
	}
	if c.limit.enable {
		rows = paginate(rows, c.limit.cursor, c.limit.size)
	}
	res.Records = rows
	c.db.logger.Debug().
		Str("table", c.table).
		Str("index", c.index.Field).
		Int("conditions", len(c.conditions)).
		Int("results", len(rows)).
		Msg("query executed")
	return res, nil
}

// List 返回多个记录
func (c *Query) List() ([]Record, error) {
	res, err := c.Run()
	return res.Records, err
}

// One 查询单个记录
func (c *Query) One() (Record, bool, error) {
	cc := *c
	cc.limit = limit{enable: true, cursor: c.limit.cursor, size: 1}
	rows, err := cc.List()
	if err != nil || len(rows) <= 0 {
		return Record{}, false, err
	}
	return rows[0], true, nil
}

// Count 返回记录数量
func (c *Query) Count() (int, error) {
	cc := *c
	cc.limit.enable = false
	cc.sort = nil
	rows, err := cc.List()
	return len(rows), err
}

// Scroll 滚动查询, stops when fn returns false.
func (c *Query) Scroll(fn func(r Record) bool) error {
	rows, err := c.List()
	if err != nil {
		return err
	}
	for _, r := range rows {
		if !fn(r) {
			return nil
		}
	}
	return nil
}

// Explain 执行计划
func (c *Query) Explain() Explain {
	e := Explain{
		Index: c.index,
		Expr:  strings.Join(c.expressions, " && "),
	}
	for _, v := range c.conditions {
		e.Conditions = append(e.Conditions, v.String())
	}
	if c.sort != nil {
		e.Sort = c.sort.criterion.String() + " " + c.sort.order.String() + " using " + c.algorithm
	}
	if c.limit.enable {
		e.Limit = strconv.Itoa(c.limit.cursor) + "," + strconv.Itoa(c.limit.size)
	}
	return e
}

func (c *Query) load() ([]Record, error) {
	if c.index.IsEmpty() {
		return c.db.All(c.table)
	}
	criterion, err := ParseCriterion(c.index.Field)
	if err != nil {
		return nil, err
	}
	prefix := c.index.Value
	if !c.index.Prefix {
		prefix += "/"
	}
	return c.db.scanIndex(c.table, criterion, prefix)
}

func (c *Query) selectIndex(operator int, criterion SortCriterion, values ...string) {
	if c.isChild || !isIndexed(criterion) {
		return
	}
	var vs []string
	for _, v := range values {
		if len(v) > 0 {
			vs = append(vs, strings.ToLower(v))
		}
	}
	if len(vs) <= 0 {
		return
	}
	// 如果当前没有命中的索引值
	if !c.index.IsEmpty() {
		return
	}
	switch operator {
	case eq, leftLike:
		c.index = Index{
			Field:  criterion.String(),
			Value:  vs[0],
			Prefix: operator == leftLike,
		}
	case in:
		// 如果是in查询，并且有共同前缀的话，走索引
		if prefix := getCommonPrefix(vs); len(prefix) > 0 {
			c.index = Index{
				Field:  criterion.String(),
				Value:  prefix,
				Prefix: true,
			}
		}
	}
}

func getCommonPrefix(ss []string) string {
	if len(ss) == 0 {
		return ""
	}
	prefix := ss[0]
	for _, s := range ss[1:] {
		n := 0
		for n < len(prefix) && n < len(s) && prefix[n] == s[n] {
			n++
		}
		prefix = prefix[:n]
	}
	return prefix
}

// apply runs one condition over rows. Searches with their own result
// order go through the engine; the rest filter record by record.
func (e *Engine) apply(cond condition, rows []Record) ([]Record, error) {
	switch cond.kind {
	case like:
		return e.AdvancedSearch(rows, map[SortCriterion]string{cond.criterion: cond.value}), nil
	case between:
		return e.RangeSearch(rows, cond.criterion, cond.min, cond.max), nil
	case fuzzy:
		return e.FuzzySearch(rows, cond.value, cond.distance), nil
	case hybrid:
		return e.HybridSearch(rows, cond.value, cond.criterion), nil
	}
	match, err := e.predicate(cond)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		ok, err := match(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// predicate compiles cond into a per-record test. Groups compile their
// expressions once up front.
func (e *Engine) predicate(cond condition) (func(r Record) (bool, error), error) {
	if cond.kind != must && cond.kind != should {
		return func(r Record) (bool, error) {
			return e.match(cond, r), nil
		}, nil
	}
	var tests []func(r Record) (bool, error)
	for _, child := range cond.children {
		test, err := e.predicate(child)
		if err != nil {
			return nil, err
		}
		tests = append(tests, test)
	}
	parser := NewParser(e.Projector)
	for _, code := range cond.exprs {
		program, err := parser.Compile(code)
		if err != nil {
			return nil, err
		}
		tests = append(tests, func(r Record) (bool, error) {
			return parser.Eval(program, r)
		})
	}
	// must stops at the first false, should at the first true
	stop := cond.kind == should
	return func(r Record) (bool, error) {
		for _, test := range tests {
			ok, err := test(r)
			if err != nil {
				return false, err
			}
			if ok == stop {
				return stop, nil
			}
		}
		return !stop, nil
	}, nil
}

func (e *Engine) match(cond condition, r Record) bool {
	text := e.Project(r, cond.criterion)
	number := e.ProjectNumeric(r, cond.criterion)
	switch cond.kind {
	case eq:
		return strings.EqualFold(text, cond.value)
	case ne:
		return !strings.EqualFold(text, cond.value)
	case in, notIn:
		found := false
		for _, v := range cond.values {
			if strings.EqualFold(text, v) {
				found = true
				break
			}
		}
		return found == (cond.kind == in)
	case like:
		return strings.Contains(strings.ToLower(text), strings.ToLower(cond.value))
	case leftLike:
		return strings.HasPrefix(strings.ToLower(text), strings.ToLower(cond.value))
	case rightLike:
		return strings.HasSuffix(strings.ToLower(text), strings.ToLower(cond.value))
	case gt:
		return number > cond.min
	case gte:
		return number >= cond.min
	case lt:
		return number < cond.min
	case lte:
		return number <= cond.min
	case between:
		return number >= cond.min && number <= cond.max
	case exist, notExist:
		set := len(text) > 0
		if cond.criterion.IsNumeric() {
			set = number != 0
		}
		return set == (cond.kind == exist)
	case fuzzy:
		return Levenshtein(strings.ToLower(cond.value), strings.ToLower(r.Name)) <= cond.distance
	case hybrid:
		if strings.Contains(strings.ToLower(text), strings.ToLower(cond.value)) {
			return true
		}
		return cond.criterion == ByName &&
			Levenshtein(strings.ToLower(cond.value), strings.ToLower(r.Name)) <= HybridFuzzyDistance
	}
	return false
}

func paginate(rows []Record, cursor, size int) []Record {
	if cursor >= len(rows) {
		return rows[:0]
	}
	end := len(rows)
	if size < len(rows)-cursor {
		end = cursor + size
	}
	return rows[cursor:end]
}

// Find loads table, orders it by the lower-cased projection of criterion
// and binary searches it for term.
func (c *DB) Find(table string, criterion SortCriterion, term string) (Record, bool, error) {
	rows, err := c.All(table)
	if err != nil {
		return Record{}, false, err
	}
	p := c.engine.Projector
	run(rows, func(a, b Record) int {
		return strings.Compare(strings.ToLower(p.Project(a, criterion)), strings.ToLower(p.Project(b, criterion)))
	}, algorithms[MergeSortName])
	r, ok := p.BinarySearch(rows, term, criterion)
	return r, ok, nil
}
