package extractor

// KnownContentSelectors lists the containers that hold the rendered page
// content, per page source. They are tried in order; <body> is the fallback.
//
//nolint:gochecknoglobals // This is a static lookup table that must be global
var KnownContentSelectors = map[string][]string{
	"parsoid": {
		// REST page/html output: sections sit directly under <body>
		"body[class~='mw-body-content']",
		"body[class~='mw-parser-output']",
	},
	"skin": {
		// A saved article view from any MediaWiki skin
		"#mw-content-text > .mw-parser-output",
		"#mw-content-text",
	},
	"render": {
		// action=render and api.php?action=parse fragments
		".mw-parser-output",
	},
}

// contentSelectorOrder fixes the order in which KnownContentSelectors groups are tried.
var contentSelectorOrder = []string{"parsoid", "skin", "render"}
