package component

import "testing"

type handlerProps struct {
	label   string
	onClick func()
	tags    []string
	style   *struct{ width int }
}

func (handlerProps) Key() string { return "" }

type vetoing struct{ version int }

func (vetoing) Key() string { return "" }

func (v vetoing) ShouldUpdate(prev Component) bool {
	return prev.(vetoing).version/10 != v.version/10
}

func TestEquivalent(t *testing.T) {
	click := func() {}
	tests := []struct {
		name string
		a, b Component
		want bool
	}{
		{"identical", handlerProps{label: "a"}, handlerProps{label: "a"}, true},
		{"changed field", handlerProps{label: "a"}, handlerProps{label: "b"}, false},
		{"same func", handlerProps{onClick: click}, handlerProps{onClick: click}, true},
		{"nil vs func", handlerProps{}, handlerProps{onClick: click}, false},
		{"equal slices", handlerProps{tags: []string{"x"}}, handlerProps{tags: []string{"x"}}, true},
		{"different slices", handlerProps{tags: []string{"x"}}, handlerProps{tags: []string{"y"}}, false},
		{"deep pointer", handlerProps{style: &struct{ width int }{1}}, handlerProps{style: &struct{ width int }{1}}, true},
		{"different pointee", handlerProps{style: &struct{ width int }{1}}, handlerProps{style: &struct{ width int }{2}}, false},
		{"different types", leaf{}, other{}, false},
		{"nested children", column{children: []Component{leaf{text: "a"}}}, column{children: []Component{leaf{text: "a"}}}, true},
		{"nested children changed", column{children: []Component{leaf{text: "a"}}}, column{children: []Component{leaf{text: "b"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equivalent(tt.a, tt.b); got != tt.want {
				t.Errorf("Equivalent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldUpdateDelegatesToUpdater(t *testing.T) {
	if ShouldUpdate(vetoing{version: 11}, vetoing{version: 12}) {
		t.Error("expected Updater to veto the update within the same decade")
	}
	if !ShouldUpdate(vetoing{version: 11}, vetoing{version: 21}) {
		t.Error("expected Updater to request an update across decades")
	}
	if !ShouldUpdate(leaf{}, other{}) {
		t.Error("type change must always update")
	}
}

func TestTypeName(t *testing.T) {
	if got := TypeName(&leaf{}); got != "leaf" {
		t.Errorf("TypeName(&leaf{}) = %q, want leaf", got)
	}
	if got := TypeName(nil); got != "<nil>" {
		t.Errorf("TypeName(nil) = %q", got)
	}
}
