package notice

import (
	"embed"
	"io/fs"
	"log/slog"
	"path"

	"github.com/leonelquinteros/gotext"
)

// Domain is the gettext domain of all game text
const Domain = "certquest"

// DefaultLang is used for any key the selected language lacks
const DefaultLang = "en"

//go:embed locales/*/LC_MESSAGES/*.po
var bundled embed.FS

// getter is what both gotext.Po and gotext.Locale provide
type getter interface {
	Get(str string, vars ...interface{}) string
}

// Catalog resolves notice keys to text in one language, falling back to
// English for keys that language does not carry
type Catalog struct {
	lang     string
	primary  getter
	fallback getter
}

// NewCatalog loads lang. When dir is set the language is read from
// dir/<lang>/LC_MESSAGES/certquest.po, otherwise from the bundled files.
func NewCatalog(lang, dir string) *Catalog {
	return newCatalog(bundled, lang, dir)
}

func newCatalog(files fs.FS, lang, dir string) *Catalog {
	if lang == "" {
		lang = DefaultLang
	}

	// A nil *gotext.Po must not reach the getter fields
	c := &Catalog{lang: lang}
	if po := bundledPo(files, DefaultLang); po != nil {
		c.fallback = po
	}
	switch {
	case dir != "":
		l := gotext.NewLocale(dir, lang)
		l.AddDomain(Domain)
		c.primary = l
	case lang != DefaultLang:
		if po := bundledPo(files, lang); po != nil {
			c.primary = po
		} else {
			slog.Warn("No bundled translation, using English", "lang", lang)
		}
	}
	return c
}

func bundledPo(files fs.FS, lang string) *gotext.Po {
	data, err := fs.ReadFile(files, path.Join("locales", lang, "LC_MESSAGES", Domain+".po"))
	if err != nil {
		return nil
	}
	po := gotext.NewPo()
	po.Parse(data)
	return po
}

// Lang returns the selected language
func (c *Catalog) Lang() string {
	return c.lang
}

// Text formats the message for key
func (c *Catalog) Text(key Key, args ...any) string {
	k := string(key)
	for _, g := range []getter{c.primary, c.fallback} {
		if g == nil {
			continue
		}
		if g.Get(k) != k {
			return g.Get(k, args...)
		}
	}
	return k
}
