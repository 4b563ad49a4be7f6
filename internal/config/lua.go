package config

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkline/internal/render"
)

// LoadLua layers a Lua setup file over cfg. The file must return a
// table:
//
//	return {
//	    integrations = { "markdown", "org" },
//	    events = { "mode.insert", "cursor.moved" },
//	    renderer_options = {
//	        mermaid = { theme = "dark", scale = 2 },
//	    },
//	}
//
// A missing file is not an error.
func LoadLua(cfg *Config, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("evaluating setup file %s: %w", path, err)
	}

	ret := L.Get(-1)
	table, ok := ret.(*lua.LTable)
	if !ok {
		return fmt.Errorf("setup file %s must return a table, got %s", path, ret.Type())
	}

	loaded := Config{DiscardStaleJobs: cfg.DiscardStaleJobs}

	loaded.Integrations = stringList(table.RawGetString("integrations"))
	loaded.Events = stringList(table.RawGetString("events"))
	if s, ok := table.RawGetString("cache_dir").(lua.LString); ok {
		loaded.CacheDir = string(s)
	}
	if s, ok := table.RawGetString("log_level").(lua.LString); ok {
		loaded.LogLevel = string(s)
	}
	if b, ok := table.RawGetString("discard_stale_jobs").(lua.LBool); ok {
		loaded.DiscardStaleJobs = bool(b)
	}

	if opts, ok := table.RawGetString("renderer_options").(*lua.LTable); ok {
		loaded.RendererOptions = make(map[string]render.Options)
		opts.ForEach(func(key, value lua.LValue) {
			id, ok := key.(lua.LString)
			if !ok {
				return
			}
			entry, ok := value.(*lua.LTable)
			if !ok {
				return
			}
			loaded.RendererOptions[string(id)] = rendererOptions(entry)
		})
	}

	cfg.apply(&loaded)
	return nil
}

// rendererOptions converts one renderer's Lua option table.
func rendererOptions(t *lua.LTable) render.Options {
	var opts render.Options
	if s, ok := t.RawGetString("background").(lua.LString); ok {
		opts.Background = string(s)
	}
	if s, ok := t.RawGetString("theme").(lua.LString); ok {
		opts.Theme = string(s)
	}
	if n, ok := t.RawGetString("scale").(lua.LNumber); ok {
		opts.Scale = float64(n)
	}
	if n, ok := t.RawGetString("width").(lua.LNumber); ok {
		opts.Width = int(n)
	}
	if n, ok := t.RawGetString("height").(lua.LNumber); ok {
		opts.Height = int(n)
	}
	return opts
}

// stringList converts a Lua array of strings. Non-arrays and
// non-string entries are ignored.
func stringList(v lua.LValue) []string {
	t, ok := v.(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	t.ForEach(func(_, value lua.LValue) {
		if s, ok := value.(lua.LString); ok {
			out = append(out, string(s))
		}
	})
	return out
}
