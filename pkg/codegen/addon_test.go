// Copyright 2026 OdooForge Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func libraryAddon() Addon {
	return Addon{
		Name:    "library",
		Summary: "Track books and loans",
		Depends: []string{"contacts"},
		Models: []Model{
			{
				Name:    "library.book",
				Inherit: []string{"mail.thread"},
				Fields: []Field{
					{Name: "name", Type: "char", Required: true},
					{Name: "isbn", Type: "char", Label: "ISBN"},
					{Name: "author_id", Type: "many2one", Relation: "res.partner"},
					{Name: "state", Type: "selection", Selection: [][2]string{
						{"available", "Available"},
						{"loaned", "Loaned"},
					}},
				},
			},
		},
	}
}

func TestBuildAddonFileSet(t *testing.T) {
	files, err := BuildAddon(libraryAddon())
	require.NoError(t, err)

	for _, path := range []string{
		"__manifest__.py",
		"__init__.py",
		"models/__init__.py",
		"models/library_book.py",
		"views/library_book_views.xml",
		"security/ir.model.access.csv",
	} {
		assert.Contains(t, files, path)
	}
}

func TestManifestIncludesMixinDepends(t *testing.T) {
	files, err := BuildAddon(libraryAddon())
	require.NoError(t, err)

	manifest := files["__manifest__.py"]
	// mail.thread pulls in the mail module even though it was not declared.
	assert.Contains(t, manifest, `"mail",`)
	assert.Contains(t, manifest, `"base",`)
	assert.Contains(t, manifest, `"contacts",`)
	assert.Contains(t, manifest, `"security/ir.model.access.csv",`)
	assert.Contains(t, manifest, `"version": "18.0.1.0.0"`)
}

func TestModelRendering(t *testing.T) {
	files, err := BuildAddon(libraryAddon())
	require.NoError(t, err)

	model := files["models/library_book.py"]
	assert.Contains(t, model, `class LibraryBook(models.Model):`)
	assert.Contains(t, model, `_name = "library.book"`)
	assert.Contains(t, model, `_inherit = ["mail.thread"]`)
	assert.Contains(t, model, `name = fields.Char(string="Name", required=True)`)
	assert.Contains(t, model, `isbn = fields.Char(string="ISBN")`)
	assert.Contains(t, model, `author_id = fields.Many2one("res.partner", string="Author Id")`)
	assert.Contains(t, model, `("available", "Available"), ("loaned", "Loaned")`)
}

func TestViewsRendering(t *testing.T) {
	files, err := BuildAddon(libraryAddon())
	require.NoError(t, err)

	views := files["views/library_book_views.xml"]
	assert.Contains(t, views, `<field name="model">library.book</field>`)
	assert.Contains(t, views, `id="library_book_view_list"`)
	assert.Contains(t, views, `id="library_book_view_form"`)
	assert.Contains(t, views, `<field name="author_id"/>`)
}

func TestAccessCSV(t *testing.T) {
	files, err := BuildAddon(libraryAddon())
	require.NoError(t, err)

	csv := files["security/ir.model.access.csv"]
	assert.Contains(t, csv, "access_library_book_user,library.book.user,model_library_book,base.group_user,1,1,1,1")
}

func TestBuildAddonDeterministic(t *testing.T) {
	first, err := BuildAddon(libraryAddon())
	require.NoError(t, err)
	second, err := BuildAddon(libraryAddon())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildAddonValidation(t *testing.T) {
	tests := []struct {
		name  string
		addon Addon
	}{
		{"bad addon name", Addon{Name: "Bad Name", Models: []Model{{Name: "a.b"}}}},
		{"no models", Addon{Name: "empty"}},
		{"bad model name", Addon{Name: "ok", Models: []Model{{Name: "Not.Valid!"}}}},
		{"relation missing", Addon{Name: "ok", Models: []Model{{
			Name:   "ok.model",
			Fields: []Field{{Name: "partner_id", Type: "many2one"}},
		}}}},
		{"bad field type", Addon{Name: "ok", Models: []Model{{
			Name:   "ok.model",
			Fields: []Field{{Name: "x", Type: "quaternion"}},
		}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildAddon(tt.addon)
			assert.Error(t, err)
		})
	}
}
