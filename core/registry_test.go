package core

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func newTestRegistry() *Registry {
	config := &QRSConfig{
		Host:          "qs02",
		Port:          4242,
		Xrfkey:        DefaultXrfkey,
		ContentType:   ContentTypeJSON,
		UserDirectory: "internal",
		UserId:        "sa_repository",
	}
	return NewRegistry(config)
}

func TestRegistry_RegisterMethod(t *testing.T) {
	r := newTestRegistry()
	tests := []struct {
		name, verb, path string
	}{
		{"getTest", "GET", "/test/path"},
		{"postTest", "POST", "/test/path"},
		{"putTest", "PUT", "/test/{id}/path"},
		{"deleteTest", "DELETE", "/test/{id}/path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := r.RegisterMethod(tt.name, tt.verb, tt.path, "")
			if err != nil {
				t.Fatalf("RegisterMethod() error = %v", err)
			}
			if m.Name() != tt.name || m.Verb() != tt.verb || m.Path() != tt.path {
				t.Errorf("RegisterMethod() = %+v", m.Info())
			}
			if _, ok := r.Exec(tt.name); !ok {
				t.Errorf("shortcut for %s not stored", tt.name)
			}
		})
	}
	if r.Len() != len(tests) {
		t.Errorf("Len() = %d, want %d", r.Len(), len(tests))
	}
}

func TestRegistry_RegisterMethodErrors(t *testing.T) {
	r := newTestRegistry()
	if _, err := r.RegisterMethod("addUser", "POST", "/qrs/user", ""); err != nil {
		t.Fatalf("RegisterMethod() error = %v", err)
	}

	tests := []struct {
		name  string
		verb  string
		path  string
		check func(error) bool
	}{
		{"addUser", "POST", "/qrs/user", IsMethodExistsErr},
		{"addUser", "GET", "/qrs/other", IsMethodExistsErr},
		{"patchUser", "PATCH", "/qrs/user", IsMethodNotAllowedErr},
		{"lowerGet", "get", "/qrs/user", IsMethodNotAllowedErr},
		{"noVerb", "", "/qrs/user", IsMethodNotAllowedErr},
		{"noPath", "GET", "", IsPathNotSpecifiedErr},
	}
	for _, tt := range tests {
		t.Run(tt.name+"_"+tt.verb, func(t *testing.T) {
			_, err := r.RegisterMethod(tt.name, tt.verb, tt.path, "")
			if !tt.check(err) {
				t.Errorf("RegisterMethod() error = %v", err)
			}
		})
	}
	if r.Len() != 1 {
		t.Errorf("failed registrations changed the registry: Len() = %d", r.Len())
	}
	if info := r.ShowMethodInfo("addUser"); info["path"] != "/qrs/user" {
		t.Errorf("original registration altered: %v", info)
	}
}

func TestRegistry_ShowMethodInfo(t *testing.T) {
	r := newTestRegistry()
	if info := r.ShowMethodInfo("getTest"); !info.Empty() {
		t.Fatalf("ShowMethodInfo() on unknown name = %v, want empty", info)
	}

	if _, err := r.RegisterMethod("getTest", "GET", "/test/path", "?param={param}"); err != nil {
		t.Fatalf("RegisterMethod() error = %v", err)
	}
	var info MethodInfo
	if err := r.ShowMethodInfo("getTest").Fill(&info); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	want := MethodInfo{Name: "getTest", Method: "GET", Path: "/test/path", Params: "?param={param}"}
	if info != want {
		t.Errorf("ShowMethodInfo() = %+v, want %+v", info, want)
	}

	if !r.DeleteMethod("getTest") {
		t.Fatal("DeleteMethod() = false")
	}
	if info := r.ShowMethodInfo("getTest"); !info.Empty() {
		t.Errorf("ShowMethodInfo() after delete = %v, want empty", info)
	}
}

func TestRegistry_ShowAllMethodsInfo(t *testing.T) {
	r := newTestRegistry()
	names := []string{"postUser", "getAbout", "deleteAppId"}
	verbs := []string{"POST", "GET", "DELETE"}
	for i, name := range names {
		if _, err := r.RegisterMethod(name, verbs[i], "/qrs/"+name, ""); err != nil {
			t.Fatalf("RegisterMethod() error = %v", err)
		}
	}
	r.DeleteMethod("getAbout")
	if _, err := r.RegisterMethod("getAbout", "GET", "/qrs/about", ""); err != nil {
		t.Fatalf("RegisterMethod() error = %v", err)
	}

	var infos []MethodInfo
	if err := r.ShowAllMethodsInfo().Fill(&infos); err != nil {
		t.Fatalf("Fill() error = %v", err)
	}
	wantOrder := []string{"postUser", "deleteAppId", "getAbout"}
	if len(infos) != len(wantOrder) {
		t.Fatalf("ShowAllMethodsInfo() returned %d entries", len(infos))
	}
	for i, name := range wantOrder {
		if infos[i].Name != name {
			t.Errorf("entry %d = %q, want %q", i, infos[i].Name, name)
		}
	}
	if got := r.Names(); len(got) != 3 || got[2] != "getAbout" {
		t.Errorf("Names() = %v", got)
	}
}

func TestRegistry_DeleteMethod(t *testing.T) {
	r := newTestRegistry()
	if r.DeleteMethod("getTest") {
		t.Error("DeleteMethod() on unknown name = true")
	}
	if _, err := r.RegisterMethod("getTest", "GET", "/test/path", ""); err != nil {
		t.Fatalf("RegisterMethod() error = %v", err)
	}
	if !r.DeleteMethod("getTest") {
		t.Error("first DeleteMethod() = false")
	}
	if r.DeleteMethod("getTest") {
		t.Error("second DeleteMethod() = true")
	}
	if _, ok := r.Exec("getTest"); ok {
		t.Error("shortcut survived deletion")
	}
	if r.GetMethod("getTest") != nil {
		t.Error("method survived deletion")
	}
	if _, err := r.RegisterMethod("getTest", "GET", "/test/path", ""); err != nil {
		t.Errorf("re-registration after delete failed: %v", err)
	}
}

func TestRegistry_ConfigIsolation(t *testing.T) {
	base := &QRSConfig{Host: "qs02", ContentType: ContentTypeJSON}
	r := NewRegistry(base)
	base.Host = "changed"

	a, _ := r.RegisterMethod("getA", "GET", "/a", "")
	b, _ := r.RegisterMethod("getB", "GET", "/b", "")

	if a.Config().Host != "qs02" {
		t.Errorf("registry shares the caller's config: Host = %q", a.Config().Host)
	}

	a.Config().ContentType = ContentTypeOctetStream
	r.SetMethod("getA", a)

	if b.Config().ContentType != ContentTypeJSON {
		t.Errorf("sibling config changed: %q", b.Config().ContentType)
	}
	if r.Config().ContentType != ContentTypeJSON {
		t.Errorf("base config changed: %q", r.Config().ContentType)
	}
	if r.GetMethod("getA").Config().ContentType != ContentTypeOctetStream {
		t.Error("override lost after SetMethod")
	}
	if a.Config().Path != "/a" || b.Config().Path != "/b" {
		t.Errorf("paths leaked between methods: %q %q", a.Config().Path, b.Config().Path)
	}
}

func TestRegistry_SetMethodRebindsShortcut(t *testing.T) {
	_, config := newPlainServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"path": r.URL.Path})
	})
	r := NewRegistry(config)
	if _, err := r.RegisterMethod("getThing", "GET", "/old", ""); err != nil {
		t.Fatalf("RegisterMethod() error = %v", err)
	}
	replacement := NewMethod("getThing", "GET", "/new", r.Config(), "")
	if got := r.SetMethod("getThing", replacement); got != replacement {
		t.Fatal("SetMethod() did not return the stored method")
	}

	result, err := r.Call(context.Background(), "getThing", nil)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got := result.(Record)["path"]; got != "/new" {
		t.Errorf("shortcut still bound to old method: path = %v", got)
	}
	if info := r.ShowMethodInfo("getThing"); info["path"] != "/new" {
		t.Errorf("ShowMethodInfo() = %v", info)
	}
}

func TestRegistry_CallUnknown(t *testing.T) {
	r := newTestRegistry()
	if _, err := r.Call(context.Background(), "getNothing", nil); !IsMethodNotFoundErr(err) {
		t.Errorf("Call() error = %v, want MethodNotFoundError", err)
	}
}

func TestRegistry_ImportMethods(t *testing.T) {
	r := newTestRegistry()
	descriptors := []Descriptor{
		{Method: "GET", Path: "/qrs/app/{id}/export"},
		{Method: "POST", Path: "/qrs/user"},
		{Method: "GET", Path: "/qrs/app/full?filter={filter}&orderby={orderby}", Extended: "Full app list"},
	}
	if err := r.ImportMethods(descriptors); err != nil {
		t.Fatalf("ImportMethods() error = %v", err)
	}

	for _, name := range []string{"getAppIdExport", "postUser", "getAppFull"} {
		if r.GetMethod(name) == nil {
			t.Errorf("method %s not imported", name)
		}
	}
	info := r.ShowMethodInfo("getAppFull")
	if info["path"] != "/qrs/app/full" {
		t.Errorf("path = %v, query suffix not stripped", info["path"])
	}
	if info["params"] != "filter={filter}&orderby={orderby}" {
		t.Errorf("params = %v", info["params"])
	}
	if info["extended"] != "Full app list" {
		t.Errorf("extended = %v", info["extended"])
	}
}

func TestRegistry_ImportMethodsCollision(t *testing.T) {
	r := newTestRegistry()
	descriptors := []Descriptor{
		{Method: "GET", Path: "/qrs/app/{id}"},
		{Method: "GET", Path: "/qrs/app/id"},
		{Method: "GET", Path: "/qrs/about"},
	}
	err := r.ImportMethods(descriptors)
	if !IsMethodExistsErr(err) {
		t.Fatalf("ImportMethods() error = %v, want MethodExistsError", err)
	}
	if info := r.ShowMethodInfo("getAppId"); info["path"] != "/qrs/app/{id}" {
		t.Errorf("first registration lost: %v", info)
	}
	if r.GetMethod("getAbout") != nil {
		t.Error("import continued after failure")
	}
}
