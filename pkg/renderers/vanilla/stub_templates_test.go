package vanilla_test

type stubTemplates struct {
	calls map[string]int
}

func newStubTemplates() *stubTemplates {
	return &stubTemplates{calls: make(map[string]int)}
}

func (s *stubTemplates) RenderTemplate(name string, _ any) (string, error) {
	s.calls[name]++
	return "<" + name + ">", nil
}
