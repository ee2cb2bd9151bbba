package gallery

import "testing"

func sampleTree() *Tree {
	beach := &Album{RelPath: "trip/beach", Name: "beach", ParentPath: "trip",
		Images: []*Image{{Name: "c.jpg", RelPath: "trip/beach/c.jpg"}}}
	trip := &Album{RelPath: "trip", Name: "trip", ParentPath: RootPath,
		Images:   []*Image{{Name: "a.jpg", RelPath: "trip/a.jpg"}, {Name: "b.jpg", RelPath: "trip/b.jpg"}},
		Children: []*Album{beach}}
	root := &Album{RelPath: RootPath, Name: "gallery", Children: []*Album{trip}}
	return NewTree(root)
}

func TestTree_LookupAndParent(t *testing.T) {
	tree := sampleTree()

	beach, ok := tree.Lookup("trip/beach")
	if !ok {
		t.Fatal("Lookup(trip/beach) not found")
	}
	parent, ok := tree.Parent(beach)
	if !ok || parent.RelPath != "trip" {
		t.Errorf("Parent(beach) = %v, %v; want trip", parent, ok)
	}
	if _, ok := tree.Parent(tree.Root); ok {
		t.Error("root should have no parent")
	}
	if !tree.Root.IsRoot() || beach.IsRoot() {
		t.Error("IsRoot() mismatch")
	}
}

func TestTree_WalkOrderAndImages(t *testing.T) {
	tree := sampleTree()

	var order []string
	for _, a := range tree.Albums() {
		order = append(order, a.RelPath)
	}
	want := []string{".", "trip", "trip/beach"}
	if len(order) != len(want) {
		t.Fatalf("Albums() = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Albums()[%d] = %q, want %q", i, order[i], want[i])
		}
	}

	if got := len(tree.Images()); got != 3 {
		t.Errorf("len(Images()) = %d, want 3", got)
	}
	if got := tree.Root.ImageCount(); got != 3 {
		t.Errorf("ImageCount() = %d, want 3", got)
	}
}

func TestJoinAndRelativeTo(t *testing.T) {
	tests := []struct {
		album string
		elems []string
		want  string
	}{
		{RootPath, []string{"thumbnails", "200", "a.jpg"}, "thumbnails/200/a.jpg"},
		{"trip", []string{"thumbnails", "200", "a.jpg"}, "trip/thumbnails/200/a.jpg"},
		{"trip/beach", []string{"c.jpg"}, "trip/beach/c.jpg"},
	}
	for _, tt := range tests {
		got := Join(tt.album, tt.elems...)
		if got != tt.want {
			t.Errorf("Join(%q, %v) = %q, want %q", tt.album, tt.elems, got, tt.want)
		}
		if back := RelativeTo(tt.album, got); back != Join("", tt.elems...) {
			t.Errorf("RelativeTo(%q, %q) = %q", tt.album, got, back)
		}
	}
}

func TestImage_Usable(t *testing.T) {
	img := &Image{}
	if img.Usable() {
		t.Error("image without thumbnails should not be usable")
	}
	img.Thumbnails = map[int]string{200: "thumbnails/200/a.jpg"}
	if !img.Usable() {
		t.Error("image with thumbnails should be usable")
	}
	img.Failed = true
	if img.Usable() {
		t.Error("failed image should not be usable")
	}
}
