// internal/hydrate/hydrate.go

// Package hydrate resolves the model references inside a stored scene
// document into fully-qualified asset URLs. It is a pure transformation over
// the decoded document plus a lookup capability; nothing here touches the
// database directly.
package hydrate

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Document keys. wrapperKey guards against an upstream double-wrap bug where
// scene_data arrives nested inside itself.
const (
	wrapperKey    = "scene_data"
	featuresKey   = "features"
	propertiesKey = "properties"
	modelIDKey    = "mlid"
	modelURLKey   = "modelUrl"
)

// Asset is the registry's answer for one mlid.
type Asset struct {
	StorageURL       string
	OriginalFilename string
}

// Lookup batch-resolves a set of mlids. Missing ids are simply absent from
// the returned map; a lookup never fails hard.
type Lookup func(ids []int) map[int]Asset

// Hydrate injects a modelUrl into the properties of every feature whose mlid
// resolves through lookup. Features without an mlid, or whose mlid has no
// registry match, are left untouched. The transform is idempotent: a second
// pass re-derives identical URLs.
func Hydrate(doc map[string]any, lookup Lookup, host, prefix string) map[string]any {
	if doc == nil {
		return doc
	}

	// Unwrap the double-wrap artifact at most once; recursing further would
	// mask genuinely malformed documents.
	if inner, ok := doc[wrapperKey].(map[string]any); ok {
		doc = inner
	}

	feats, ok := doc[featuresKey].([]any)
	if !ok {
		return doc
	}

	ids := make(map[int]struct{})
	for _, f := range feats {
		if id, ok := featureModelID(f); ok {
			ids[id] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return doc
	}

	idList := make([]int, 0, len(ids))
	for id := range ids {
		idList = append(idList, id)
	}
	sort.Ints(idList)

	assets := lookup(idList)

	for _, f := range feats {
		feat, ok := f.(map[string]any)
		if !ok {
			continue
		}
		props, ok := feat[propertiesKey].(map[string]any)
		if !ok {
			continue
		}
		id, ok := modelID(props[modelIDKey])
		if !ok {
			continue
		}
		asset, ok := assets[id]
		if !ok {
			continue
		}
		props[modelURLKey] = AssetURL(host, prefix, asset.StorageURL)
	}
	return doc
}

// AssetURL qualifies a stored path against the serving host. Paths already
// under the serving prefix only get the host prepended.
func AssetURL(host, prefix, stored string) string {
	if !strings.HasPrefix(stored, "/") {
		stored = "/" + stored
	}
	if stored == prefix || strings.HasPrefix(stored, prefix+"/") {
		return host + stored
	}
	return host + prefix + stored
}

func featureModelID(f any) (int, bool) {
	feat, ok := f.(map[string]any)
	if !ok {
		return 0, false
	}
	props, ok := feat[propertiesKey].(map[string]any)
	if !ok {
		return 0, false
	}
	return modelID(props[modelIDKey])
}

// modelID coerces the mlid property to an integer. JSON decoding yields
// float64 for numbers, but stored documents also carry string ids.
func modelID(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		n = strings.TrimSpace(n)
		if n == "" {
			return 0, false
		}
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}
