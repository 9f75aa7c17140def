package example

type StatusCategory string

const (
	StatusCategoryTodo StatusCategory = "TODO"
	StatusCategoryDone StatusCategory = "DONE"
)

type Status struct {
	Category StatusCategory
}

func assignments() {
	var s Status
	s.Category = "TODO" // want `enum field Category assigned string literal; use defined constant instead`
	s.Category = StatusCategoryDone
	_ = s
}

func literals() {
	ok := Status{Category: StatusCategoryTodo}
	bad := Status{Category: "DONE"} // want `enum field Category assigned string literal; use defined constant instead`
	_, _ = ok, bad
}
