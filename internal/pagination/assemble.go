package pagination

import (
	"errors"
	"fmt"

	"github.com/hanpama/graphcache/internal/cache"
)

// ErrMultiplePivots is returned by Assemble when more than one cached variant
// carries both first and last in Inwards mode. Where each pivot's nodes belong
// relative to the others is undefined, so no connection is produced.
var ErrMultiplePivots = errors.New("multiple pivot pages cached for connection")

// pageKind classifies a cached variant by its pagination arguments.
type pageKind int

const (
	kindForward pageKind = iota // plain first, or no pagination arguments
	kindPivot                   // first and last (Inwards only)
	kindAfter
	kindBefore
	kindLast
)

func (k pageKind) String() string {
	switch k {
	case kindPivot:
		return "pivot"
	case kindAfter:
		return "after"
	case kindBefore:
		return "before"
	case kindLast:
		return "last"
	}
	return "forward"
}

type window struct {
	kind  pageKind
	first int
	last  int
}

func classify(args cache.Args, mode MergeMode) window {
	first, hasFirst := intArg(args["first"])
	last, hasLast := intArg(args["last"])
	w := window{first: first, last: last}
	switch {
	case mode == Inwards && hasFirst && hasLast:
		w.kind = kindPivot
	case cursorArg(args["after"]):
		w.kind = kindAfter
	case cursorArg(args["before"]):
		w.kind = kindBefore
	case hasLast:
		w.kind = kindLast
	default:
		w.kind = kindForward
	}
	return w
}

// Assemble folds every cached variant of fieldName on entityKey that matches
// requested into one connection. It returns a nil page when nothing usable is
// cached.
func Assemble(c cache.Cache, entityKey, fieldName string, requested cache.Args, mode MergeMode) (*ConnectionPage, error) {
	requested = cache.NormalizeArgs(requested)

	var (
		typename   string
		found      bool
		pivots     int
		startNodes = []string{}
		endNodes   = []string{}
		pageInfo   = DefaultPageInfo()
	)
	for _, info := range c.InspectFields(entityKey) {
		if info.FieldName != fieldName || info.Arguments == nil {
			continue
		}
		if !MatchArgs(requested, info.Arguments) {
			continue
		}
		page := ReadPage(c, entityKey, info.FieldKey)
		if page == nil {
			continue
		}

		w := classify(info.Arguments, mode)
		switch w.kind {
		case kindPivot:
			pivots++
			if pivots > 1 {
				return nil, fmt.Errorf("%w: %s.%s", ErrMultiplePivots, entityKey, fieldName)
			}
			startNodes = ConcatNodes(startNodes, head(page.Nodes, pivotHead(w.first, len(page.Nodes))))
			endNodes = ConcatNodes(tail(page.Nodes, w.last), endNodes)
			pageInfo = page.PageInfo
		case kindAfter:
			startNodes = ConcatNodes(startNodes, page.Nodes)
			pageInfo.EndCursor = page.PageInfo.EndCursor
			pageInfo.HasNextPage = page.PageInfo.HasNextPage
		case kindBefore:
			endNodes = ConcatNodes(page.Nodes, endNodes)
			pageInfo.StartCursor = page.PageInfo.StartCursor
			pageInfo.HasPreviousPage = page.PageInfo.HasPreviousPage
		case kindLast:
			endNodes = ConcatNodes(endNodes, page.Nodes)
			pageInfo = page.PageInfo
		default:
			startNodes = ConcatNodes(startNodes, page.Nodes)
			pageInfo = page.PageInfo
		}

		pageInfo.Typename = page.PageInfo.Typename
		typename = page.Typename
		found = true
	}
	if !found {
		return nil, nil
	}

	var nodes []string
	if mode == Outwards {
		nodes = ConcatNodes(endNodes, startNodes)
	} else {
		nodes = ConcatNodes(startNodes, endNodes)
	}
	return &ConnectionPage{Typename: typename, Nodes: nodes, PageInfo: pageInfo}, nil
}

// pivotHead is the number of leading pivot nodes that extend the forward
// side: first+1, clamped to the page length.
func pivotHead(first, length int) int {
	if first >= length {
		return length
	}
	return first + 1
}

func head(nodes []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if n > len(nodes) {
		n = len(nodes)
	}
	return nodes[:n]
}

func tail(nodes []string, n int) []string {
	if n < 0 {
		n = 0
	}
	if n > len(nodes) {
		n = len(nodes)
	}
	return nodes[len(nodes)-n:]
}
