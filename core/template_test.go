package core

import (
	"testing"
	"unicode/utf8"
)

func TestResolveTemplate(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		params  Params
		want    string
		wantErr bool
	}{
		{
			name:   "single placeholder",
			path:   "/test/{id}/path",
			params: Params{"id": "42"},
			want:   "/test/42/path",
		},
		{
			name:   "non string value",
			path:   "/test/{id}/path",
			params: Params{"id": 42},
			want:   "/test/42/path",
		},
		{
			name:   "no placeholders",
			path:   "/qrs/about",
			params: nil,
			want:   "/qrs/about",
		},
		{
			name:   "several placeholders",
			path:   "/qrs/app/{id}/copy/{target}",
			params: Params{"id": "a1", "target": "b2"},
			want:   "/qrs/app/a1/copy/b2",
		},
		{
			name:    "only first occurrence replaced",
			path:    "/{id}/{id}",
			params:  Params{"id": "1"},
			wantErr: true,
		},
		{
			name:    "missing placeholder",
			path:    "/test/{id}/path",
			params:  Params{},
			wantErr: true,
		},
		{
			name:    "unrelated parameter",
			path:    "/test/{id}/path",
			params:  Params{"name": "x"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTemplate(tt.path, tt.params)
			if tt.wantErr {
				if !IsMissingTemplateParamErr(err) {
					t.Fatalf("ResolveTemplate() error = %v, want MissingTemplateParamError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveTemplate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{"xrfkey only", nil, "?xrfkey=abcdefghijklmnop"},
		{"empty params", Params{}, "?xrfkey=abcdefghijklmnop"},
		{
			"query params follow xrfkey",
			Params{"extended": true, "format": "JSON"},
			"?xrfkey=abcdefghijklmnop&extended=true&format=JSON",
		},
		{
			"values are escaped",
			Params{"filter": "name eq 'My App'"},
			"?xrfkey=abcdefghijklmnop&filter=name+eq+%27My+App%27",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildQuery(DefaultXrfkey, tt.params); got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildUrl(t *testing.T) {
	config := &QRSConfig{Host: "qs01", Port: 4242, Prefix: "/hdr"}
	got := buildUrl(config, "/qrs/about", "?xrfkey=abcdefghijklmnop")
	want := "https://qs01:4242/hdr/qrs/about?xrfkey=abcdefghijklmnop"
	if got != want {
		t.Errorf("buildUrl() = %q, want %q", got, want)
	}

	config.SetSecure(false)
	config.Prefix = ""
	got = buildUrl(config, "qrs/about", "")
	if want = "http://qs01:4242/qrs/about"; got != want {
		t.Errorf("buildUrl() = %q, want %q", got, want)
	}
}

func TestMethodName(t *testing.T) {
	tests := []struct {
		verb, path, want string
	}{
		{"GET", "/qrs/app/{id}/export", "getAppIdExport"},
		{"POST", "/qrs/user", "postUser"},
		{"GET", "/qrs/about", "getAbout"},
		{"GET", "/qrs/app/full?filter={filter}", "getAppFull"},
		{"DELETE", "/qrs/app/{id}", "deleteAppId"},
		{"PUT", "qrs/stream/{id}/", "putStreamId"},
		{"GET", "/api/qrs/about", "getApiAbout"},
		{"GET", "/qrs/équipe/{ïd}", "getÉquipeÏd"},
		{"GET", "/qrs/データ", "getデータ"},
	}
	for _, tt := range tests {
		got := MethodName(tt.verb, tt.path)
		if got != tt.want {
			t.Errorf("MethodName(%q, %q) = %q, want %q", tt.verb, tt.path, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("MethodName(%q, %q) is not valid UTF-8", tt.verb, tt.path)
		}
	}
}

func TestSplitPath(t *testing.T) {
	path, query := splitPath("/qrs/app/full?filter={filter}&orderby={orderby}")
	if path != "/qrs/app/full" {
		t.Errorf("path = %q", path)
	}
	if query != "filter={filter}&orderby={orderby}" {
		t.Errorf("query = %q", query)
	}

	path, query = splitPath("/qrs/about")
	if path != "/qrs/about" || query != "" {
		t.Errorf("splitPath() = %q, %q", path, query)
	}
}
