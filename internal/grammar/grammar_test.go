package grammar

import (
	"errors"
	"testing"
)

func TestLexClassification(t *testing.T) {
	tokens := Lex([]string{"compress", "video.mp4", "to", "10mb", "--two-pass", "--opacity", "0.5"})

	wantKinds := []Kind{KindBareword, KindPath, KindConnective, KindNumber, KindFlag, KindFlag}
	if len(tokens) != len(wantKinds) {
		t.Fatalf("token count = %d, want %d", len(tokens), len(wantKinds))
	}
	for i, want := range wantKinds {
		if tokens[i].Kind != want {
			t.Fatalf("token %d (%q) kind = %v, want %v", i, tokens[i].Text, tokens[i].Kind, want)
		}
	}
	if tokens[5].Flag != "opacity" || tokens[5].Value != "0.5" {
		t.Fatalf("value flag not captured: %+v", tokens[5])
	}
	if tokens[4].Flag != "two-pass" || tokens[4].Value != "" {
		t.Fatalf("boolean flag should take no value: %+v", tokens[4])
	}
}

func TestLexNumericEdgeCases(t *testing.T) {
	cases := map[string]Kind{
		"1.5gb":   KindNumber,
		"0:30":    KindNumber,
		"100,50":  KindNumber,
		"2x":      KindNumber,
		"clip.m4v": KindPath,
		"*.mp4":   KindPath,
		"720p":    KindNumber,
		"gif":     KindBareword,
	}
	for in, want := range cases {
		toks := Lex([]string{in})
		if toks[0].Kind != want {
			t.Fatalf("Lex(%q) kind = %v, want %v", in, toks[0].Kind, want)
		}
	}
}

func TestResolveCompress(t *testing.T) {
	tree, err := Resolve([]string{"compress", "video.mp4", "to", "10mb", "--two-pass"})
	if err != nil {
		t.Fatal(err)
	}
	if tree.Verb != "compress" {
		t.Fatalf("verb = %q", tree.Verb)
	}
	if v, _ := tree.Slot(RoleInput); v != "video.mp4" {
		t.Fatalf("input = %q", v)
	}
	if v, _ := tree.Slot(RoleTarget); v != "10mb" {
		t.Fatalf("target = %q", v)
	}
	if !tree.HasFlag("two-pass") {
		t.Fatal("missing two-pass flag")
	}
}

func TestResolveTrim(t *testing.T) {
	tree, err := Resolve([]string{"trim", "video.mp4", "from", "0:30", "to", "1:00"})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := tree.Slot(RoleStart); v != "0:30" {
		t.Fatalf("start = %q", v)
	}
	if v, _ := tree.Slot(RoleEnd); v != "1:00" {
		t.Fatalf("end = %q", v)
	}
}

func TestResolveVariableOrder(t *testing.T) {
	a, err := Resolve([]string{"convert", "video.mp4", "to", "gif"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Resolve([]string{"convert", "to", "vertical", "video.mp4"})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := a.Slot(RoleTarget); v != "gif" {
		t.Fatalf("target = %q", v)
	}
	if v, _ := b.Slot(RoleTarget); v != "vertical" {
		t.Fatalf("target = %q", v)
	}
	if v, _ := b.Slot(RoleInput); v != "video.mp4" {
		t.Fatalf("input = %q", v)
	}
}

func TestResolveMultiWordVerb(t *testing.T) {
	tree, err := Resolve([]string{"speed", "up", "video.mp4", "by", "2x"})
	if err != nil {
		t.Fatal(err)
	}
	if tree.Verb != "speed-up" {
		t.Fatalf("verb = %q", tree.Verb)
	}
	if v, _ := tree.Slot(RoleFactor); v != "2x" {
		t.Fatalf("factor = %q", v)
	}
}

func TestResolveMontageVariadic(t *testing.T) {
	tree, err := Resolve([]string{"montage", "layout", "2x2", "a.mp4", "b.mp4", "c.mp4", "d.mp4"})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := tree.Slot(RoleLayout); v != "2x2" {
		t.Fatalf("layout = %q", v)
	}
	if len(tree.Paths) != 4 {
		t.Fatalf("paths = %v", tree.Paths)
	}
}

func TestResolveOverlayDirections(t *testing.T) {
	tree, err := Resolve([]string{"pip", "small.mp4", "on", "base.mp4", "at", "top-right"})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := tree.Slot(RoleInput); v != "base.mp4" {
		t.Fatalf("base input = %q", v)
	}
	if v, _ := tree.Slot(RoleSecondary); v != "small.mp4" {
		t.Fatalf("overlay = %q", v)
	}
	if v, _ := tree.Slot(RolePosition); v != "top-right" {
		t.Fatalf("position = %q", v)
	}
}

func TestResolveLoopTrailingKeyword(t *testing.T) {
	tree, err := Resolve([]string{"loop", "video.mp4", "3", "times"})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := tree.Slot(RoleCount); v != "3" {
		t.Fatalf("count = %q", v)
	}
}

func TestResolveAmbiguityPrefersConnectives(t *testing.T) {
	// "split X every 30s" and "split X into 3 parts" are distinct rules
	// for the same verb; each must pick its own shape.
	a, err := Resolve([]string{"split", "video.mp4", "every", "30s"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Slot(RoleInterval); !ok {
		t.Fatal("expected interval slot")
	}
	b, err := Resolve([]string{"split", "video.mp4", "into", "3", "parts"})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := b.Slot(RoleCount); v != "3" {
		t.Fatalf("count = %q", v)
	}
}

func TestResolveUnknownVerb(t *testing.T) {
	_, err := Resolve([]string{"frobnicate", "video.mp4"})
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("want ParseError, got %v", err)
	}
	if perr.Pos != 0 {
		t.Fatalf("pos = %d", perr.Pos)
	}
}

func TestResolveMissingConnective(t *testing.T) {
	_, err := Resolve([]string{"trim", "video.mp4", "0:30", "1:00"})
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("want ParseError, got %v", err)
	}
	if perr.Expected == "" {
		t.Fatal("error must name the expected slot")
	}
}

func TestResolveWatchFolder(t *testing.T) {
	tree, err := Resolve([]string{"watch", "folder", "./incoming", "convert", "to", "mp4"})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := tree.Slot(RoleFolder); v != "./incoming" {
		t.Fatalf("folder = %q", v)
	}
	if v, _ := tree.Slot(RoleOperation); v != "convert" {
		t.Fatalf("operation = %q", v)
	}
	if v, _ := tree.Slot(RoleTarget); v != "mp4" {
		t.Fatalf("target = %q", v)
	}
}
