// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Veridoc. It lets AI assistants query the local corpus and receive
// citation-backed answers.
package mcp

import "errors"

// ErrMissingResearchService is returned when the research service is not provided.
var ErrMissingResearchService = errors.New("mcp: research service is required")

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
