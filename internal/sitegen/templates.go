package sitegen

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Every generated site is a small Vite + React app. Only index.html and
// src/siteData.json depend on the record; the rest is fixed boilerplate.

type packageScripts struct {
	Dev     string `json:"dev"`
	Build   string `json:"build"`
	Preview string `json:"preview"`
}

type packageDeps struct {
	React    string `json:"react"`
	ReactDOM string `json:"react-dom"`
}

type packageDevDeps struct {
	Vite        string `json:"vite"`
	PluginReact string `json:"@vitejs/plugin-react"`
}

type packageJSON struct {
	Name            string         `json:"name"`
	Private         bool           `json:"private"`
	Version         string         `json:"version"`
	Type            string         `json:"type"`
	Scripts         packageScripts `json:"scripts"`
	Dependencies    packageDeps    `json:"dependencies"`
	DevDependencies packageDevDeps `json:"devDependencies"`
}

var sitePackage = packageJSON{
	Name:    "generated-site",
	Private: true,
	Version: "1.0.0",
	Type:    "module",
	Scripts: packageScripts{
		Dev:     "vite",
		Build:   "vite build",
		Preview: "vite preview",
	},
	Dependencies: packageDeps{
		React:    "^18.3.1",
		ReactDOM: "^18.3.1",
	},
	DevDependencies: packageDevDeps{
		Vite:        "^5.4.0",
		PluginReact: "^4.3.1",
	},
}

// SiteData is the record-specific payload written to src/siteData.json.
type SiteData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

const defaultTitle = "Website"

// marshalIndent renders v as two-space indented JSON without HTML escaping
// and without a trailing newline.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

func indexHTML(title string) string {
	if title == "" {
		title = defaultTitle
	}
	return `<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>` + escapeHTML(title) + `</title>
  </head>
  <body>
    <div id="root"></div>
    <script type="module" src="/src/main.jsx"></script>
  </body>
  </html>`
}

const viteConfig = `import { defineConfig } from 'vite'
import react from '@vitejs/plugin-react'

export default defineConfig({
  plugins: [react()],
})
`

const stylesCSS = `body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, Cantarell, 'Fira Sans', 'Droid Sans', 'Helvetica Neue', Arial, sans-serif; margin: 0; padding: 0; }
.container { max-width: 760px; margin: 0 auto; padding: 24px; }
.hero { padding: 40px 0; text-align: center; }
.contact { padding: 24px 0; }
h1 { margin: 0 0 12px; font-size: 28px; font-weight: 600; }
p { margin: 6px 0; }
.muted { color: #555; }
.card { border: 1px solid #e5e5e5; border-radius: 8px; padding: 16px; }
`

const mainJSX = `import React from 'react'
import { createRoot } from 'react-dom/client'
import App from './App.jsx'
import './styles.css'

const container = document.getElementById('root')
const root = createRoot(container)
root.render(<App />)
`

const appJSX = `import React from 'react'
import Heading from './components/Heading.jsx'
import Contact from './components/Contact.jsx'
import siteData from './siteData.json'

export default function App() {
  return (
    <div className="container">
      <section className="hero">
        <div className="card">
          <Heading />
          {siteData.description ? <p className="muted">{siteData.description}</p> : null}
        </div>
      </section>
      <section className="contact">
        <div className="card">
          <Contact phone={siteData.phone} address={siteData.address} />
        </div>
      </section>
    </div>
  )
}
`

const headingJSX = `import React from 'react'

const words = ['Quick', 'Fast', 'Speedy']
const chosen = words[Math.floor(Math.random() * words.length)]

export default function Heading() {
  return <h1>{chosen} delivery service in dhaka.</h1>
}
`

const contactJSX = `import React from 'react'

export default function Contact({ phone, address }) {
  return (
    <>
      <p>Phone: {phone}</p>
      <p>Address: {address}</p>
    </>
  )
}
`
