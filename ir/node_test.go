package ir

import "testing"

func TestAttrs(t *testing.T) {
	a := Attrs{{"class", "x"}, {"href", "/y"}}
	if v, ok := a.Get("href"); !ok || v != "/y" {
		t.Fatalf("Get href = %q, %v", v, ok)
	}
	if _, ok := a.Get("id"); ok {
		t.Fatalf("Get id found a value")
	}
	a = a.Set("class", "z")
	if v, _ := a.Get("class"); v != "z" {
		t.Fatalf("Set did not replace: %q", v)
	}
	a = a.Set("id", "n")
	if len(a) != 3 {
		t.Fatalf("Set did not append, len %d", len(a))
	}
	a = a.Del("href")
	if a.Has("href") || len(a) != 2 {
		t.Fatalf("Del failed: %v", a)
	}
}

func TestAttrsEqualOrderSensitive(t *testing.T) {
	a := Attrs{{"a", "1"}, {"b", "2"}}
	b := Attrs{{"b", "2"}, {"a", "1"}}
	if a.Equal(b) {
		t.Fatalf("order-insensitive equality")
	}
	if !a.Equal(a.Clone()) {
		t.Fatalf("clone not equal")
	}
}

func TestCloneIsDeep(t *testing.T) {
	n := Elem("div", Attrs{{"id", "x"}}, Elem("p", nil, TextNode("hi")))
	cp := n.Clone()
	cp.Children[0].Children[0].Text = "bye"
	cp.SetAttr("id", "y")
	if n.Children[0].Children[0].Text != "hi" {
		t.Fatalf("clone shares text node")
	}
	if v, _ := n.GetAttr("id"); v != "x" {
		t.Fatalf("clone shares attrs")
	}
}

func TestDeepEqual(t *testing.T) {
	mk := func(text string) *Node {
		return Elem("div", Attrs{{"class", "a"}}, Elem("p", nil, TextNode(text)))
	}
	if !DeepEqual(mk("x"), mk("x")) {
		t.Fatalf("identical trees unequal")
	}
	if DeepEqual(mk("x"), mk("y")) {
		t.Fatalf("different text equal")
	}
	raw := RawText("<b>")
	esc := TextNode("<b>")
	if DeepEqual(raw, esc) {
		t.Fatalf("raw flag ignored")
	}
}

func TestIdentifyFamily(t *testing.T) {
	tests := []struct {
		tag   string
		attrs Attrs
		want  FamilyKind
	}{
		{"a", Attrs{{"href", "/x"}}, LinkFamily},
		{"a", nil, OtherFamily},
		{"link", Attrs{{"href", "style.css"}}, LinkFamily},
		{"h1", nil, HeadingFamily},
		{"h6", nil, HeadingFamily},
		{"img", nil, MediaFamily},
		{"svg", nil, SvgFamily},
		{"path", nil, SvgFamily},
		{"div", nil, OtherFamily},
	}
	for _, tc := range tests {
		if got := IdentifyFamily(tc.tag, tc.attrs); got != tc.want {
			t.Errorf("IdentifyFamily(%q) = %v, want %v", tc.tag, got, tc.want)
		}
	}
}

func TestClassifyLink(t *testing.T) {
	tests := []struct {
		href string
		want LinkType
	}{
		{"#section", FragmentLink},
		{"https://example.com", ExternalLink},
		{"http://example.com", ExternalLink},
		{"mailto:a@b.c", ExternalLink},
		{"/about", AbsoluteLink},
		{"./page.html", RelativeLink},
		{"../index.html", RelativeLink},
		{"page.html", RelativeLink},
	}
	for _, tc := range tests {
		if got := ClassifyLink(tc.href); got != tc.want {
			t.Errorf("ClassifyLink(%q) = %v, want %v", tc.href, got, tc.want)
		}
	}
}

func TestHeadingLevel(t *testing.T) {
	if HeadingLevel("h3") != 3 {
		t.Fatalf("h3 level")
	}
	if HeadingLevel("header") != 0 {
		t.Fatalf("header is not a heading")
	}
}

func TestDocumentStages(t *testing.T) {
	d := NewDocument(Elem("html", nil))
	if !d.HasStage(StageRaw) || d.HasStage(StageIndexed) {
		t.Fatalf("fresh document stages: %v", d.Stages)
	}
	d.MarkStage(StageIndexed)
	d.MarkStage(StageIndexed)
	if len(d.Stages) != 2 {
		t.Fatalf("MarkStage not idempotent: %v", d.Stages)
	}
}
