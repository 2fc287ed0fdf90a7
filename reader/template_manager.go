package reader

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"path"
	"strings"
	"sync"
	"testing/fstest"

	"github.com/abiosoft/mold"
)

// TemplateManager wraps mold so pages inherit the shared layout.
type TemplateManager struct {
	engine  mold.Engine
	files   fstest.MapFS
	funcMap template.FuncMap
	mu      sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	return &TemplateManager{
		files:   fstest.MapFS{},
		funcMap: template.FuncMap{},
	}
}

// NewTemplateManagerWithFuncMap builds a manager with the function map
// installed before any template is parsed, then loads every layout and page
// from the embedded filesystem.
func NewTemplateManagerWithFuncMap(fs embed.FS, funcMap template.FuncMap) (*TemplateManager, error) {
	tm := NewTemplateManager()
	tm.AddFuncMap(funcMap)
	if err := tm.LoadFromFS(fs); err != nil {
		return nil, err
	}
	return tm, nil
}

// LoadFromFS parses templates/layouts/* and templates/pages/* from fs. A
// missing directory is not an error; a template that fails to parse is.
func (tm *TemplateManager) LoadFromFS(fs embed.FS) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for _, dir := range []string{"layouts", "pages"} {
		files, err := fs.ReadDir("templates/" + dir)
		if err != nil {
			continue
		}
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			name := dir + "/" + file.Name()
			content, err := fs.ReadFile("templates/" + name)
			if err != nil {
				return fmt.Errorf("failed to read template %s: %w", name, err)
			}
			tm.files[name] = &fstest.MapFile{Data: content}
		}
	}
	return tm.rebuild()
}

// rebuild recreates the mold engine from the accumulated template files.
// mold parses everything up front, so dynamic additions require a rebuild.
// Callers must hold tm.mu.
func (tm *TemplateManager) rebuild() error {
	opts := []mold.Option{mold.WithFuncMap(tm.funcMap)}
	// mold only accepts layout files whose name ends in "layout".
	for name := range tm.files {
		base := strings.TrimSuffix(name, path.Ext(name))
		if strings.HasPrefix(name, "layouts/") && strings.HasSuffix(strings.ToLower(base), "layout") {
			opts = append(opts, mold.WithLayout(name))
			break
		}
	}
	engine, err := mold.New(tm.files, opts...)
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	tm.engine = engine
	return nil
}

// Render renders a page template; mold resolves the layout it extends.
func (tm *TemplateManager) Render(w io.Writer, pageName string, data interface{}) error {
	tm.mu.RLock()
	defer tm.mu.RUnlock()

	if tm.engine == nil {
		return mold.ErrNotFound
	}
	return tm.engine.Render(w, pageName, data)
}

// AddFuncMap adds custom template functions.
func (tm *TemplateManager) AddFuncMap(funcMap template.FuncMap) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	for k, v := range funcMap {
		tm.funcMap[k] = v
	}
	if tm.engine != nil {
		tm.rebuild()
	}
}

// ParseTemplate parses and adds a template dynamically.
func (tm *TemplateManager) ParseTemplate(name, content string) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.files[name] = &fstest.MapFile{Data: []byte(content)}
	return tm.rebuild()
}
