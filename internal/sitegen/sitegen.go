// Package sitegen writes one static site scaffold per parsed CSV record.
//
// The generator only reads a handful of named fields (domain, title,
// description, phone, address); everything else in a record is ignored.
// Files are written atomically so a concurrent preview server never sees a
// half-written file.
package sitegen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/JonMunkholm/sitegen/internal/csvparse"
	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"
)

// Record fields read by the generator.
const (
	FieldDomain      = "domain"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPhone       = "phone"
	FieldAddress     = "address"
)

const defaultDomain = "site"

var unsafeDomainChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// SanitizeDomain replaces every character outside [A-Za-z0-9.-] with '-'.
func SanitizeDomain(s string) string {
	return unsafeDomainChars.ReplaceAllString(s, "-")
}

// SiteDirName returns the output directory name for a record. An empty
// domain, or one that sanitizes to "." or "..", maps to "site" so every
// site stays directly under the build directory.
func SiteDirName(r csvparse.Record) string {
	name := SanitizeDomain(r.Value(FieldDomain))
	switch name {
	case "", ".", "..":
		return defaultDomain
	}
	return name
}

// Site describes the output of one record.
type Site struct {
	Domain string   `json:"domain"`
	Dir    string   `json:"dir"`
	Files  []string `json:"files"`
}

// Generator writes site scaffolds under a build directory.
type Generator struct {
	buildDir    string
	concurrency int
}

// New returns a generator writing into buildDir with at most concurrency
// sites in flight.
func New(buildDir string, concurrency int) *Generator {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Generator{buildDir: buildDir, concurrency: concurrency}
}

// BuildDir returns the output root.
func (g *Generator) BuildDir() string {
	return g.buildDir
}

// Generate writes one site per record and returns them in record order.
//
// Records that sanitize to the same directory are written one after another
// in record order, so the last one wins. The first write error cancels the
// remaining work.
func (g *Generator) Generate(ctx context.Context, records []csvparse.Record) ([]Site, error) {
	if err := os.MkdirAll(g.buildDir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", g.buildDir, err)
	}

	sites := make([]Site, len(records))
	order := make([]string, 0, len(records))
	byDir := make(map[string][]int)
	for i, r := range records {
		name := SiteDirName(r)
		if _, seen := byDir[name]; !seen {
			order = append(order, name)
		}
		byDir[name] = append(byDir[name], i)
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)

	for _, name := range order {
		name := name
		indexes := byDir[name]
		eg.Go(func() error {
			for _, i := range indexes {
				if err := ctx.Err(); err != nil {
					return err
				}
				site, err := g.writeSite(name, records[i])
				if err != nil {
					return err
				}
				sites[i] = site
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return sites, nil
}

type siteFile struct {
	path    string
	content []byte
}

func (g *Generator) writeSite(name string, r csvparse.Record) (Site, error) {
	files, err := renderSite(r)
	if err != nil {
		return Site{}, err
	}

	siteDir := filepath.Join(g.buildDir, name)
	site := Site{Domain: name, Dir: siteDir, Files: make([]string, 0, len(files))}

	for _, f := range files {
		full := filepath.Join(siteDir, filepath.FromSlash(f.path))
		if err := writeFile(full, f.content); err != nil {
			return Site{}, err
		}
		site.Files = append(site.Files, f.path)
	}
	return site, nil
}

// renderSite produces the file set for one record, paths relative to the
// site directory.
func renderSite(r csvparse.Record) ([]siteFile, error) {
	pkg, err := marshalIndent(sitePackage)
	if err != nil {
		return nil, fmt.Errorf("render package.json: %w", err)
	}

	title := r.Value(FieldTitle)
	data := SiteData{
		Title:       title,
		Description: r.Value(FieldDescription),
		Phone:       r.Value(FieldPhone),
		Address:     r.Value(FieldAddress),
	}
	if data.Title == "" {
		data.Title = defaultTitle
	}
	siteData, err := marshalIndent(data)
	if err != nil {
		return nil, fmt.Errorf("render siteData.json: %w", err)
	}

	return []siteFile{
		{"package.json", pkg},
		{"vite.config.js", []byte(viteConfig)},
		{"index.html", []byte(indexHTML(title))},
		{"src/styles.css", []byte(stylesCSS)},
		{"src/main.jsx", []byte(mainJSX)},
		{"src/App.jsx", []byte(appJSX)},
		{"src/components/Heading.jsx", []byte(headingJSX)},
		{"src/components/Contact.jsx", []byte(contactJSX)},
		{"src/siteData.json", siteData},
	}, nil
}

func writeFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(content)); err != nil {
		return fmt.Errorf("write file %s: %w", path, err)
	}
	return nil
}
