// Package extract implements the heuristics that resolve a blueprint spec
// payload to its source GitHub repository.
//
// Spec payloads are inconsistently shaped: the GitHub link may appear as a
// call-to-action object anywhere in the tree, as a raw blueprintUrl field, or
// inside a JSON document that is itself encoded into a string leaf. The
// extractor walks the whole tree, collects candidates into tiered pools and
// picks the most authoritative one deterministically.
package extract

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
)

// Candidate priority tiers, higher is more authoritative
const (
	tierDeploy   = 1
	tierDownload = 2
	tierPrimary  = 3
)

// candidate is one extraction hit with its confidence tier
type candidate struct {
	priority int
	url      string
}

// candidatePools collects extraction hits during a single tree walk.
// The blueprint pool is a first-in fallback and is never sorted.
type candidatePools struct {
	primary   []candidate
	download  []candidate
	deploy    []candidate
	blueprint []string
}

// FindRepoURL walks a spec payload and returns the best-guess source
// repository URL. The second return value is false when the payload contains
// no reference at all, which callers must keep distinct from a reference that
// later fails to parse.
func FindRepoURL(payload []byte) (string, bool) {
	pools := &candidatePools{}
	walkNode(gjson.ParseBytes(payload), false, pools)
	return pools.selectURL()
}

// walkNode visits every map, sequence element and string leaf depth-first.
// decoded is true once the walk has descended through an encoded string leaf;
// inside such nodes raw blueprintUrl fields are ignored (they are handled by
// inspectDecoded, which honors the notify-when-available suppression) and
// "deploy local" hits require a github.com URL.
func walkNode(node gjson.Result, decoded bool, pools *candidatePools) {
	switch {
	case node.IsObject():
		var urlVal, textVal gjson.Result
		node.ForEach(func(key, value gjson.Result) bool {
			switch key.Str {
			case "url":
				urlVal = value
			case "text":
				textVal = value
			case "blueprintUrl":
				if !decoded && value.Type == gjson.String {
					pools.blueprint = append(pools.blueprint, value.Str)
				}
			}
			return true
		})
		if urlVal.Type == gjson.String && textVal.Type == gjson.String {
			classify(textVal.Str, urlVal.Str, decoded, pools)
		}
		node.ForEach(func(_, value gjson.Result) bool {
			walkNode(value, decoded, pools)
			return true
		})
	case node.IsArray():
		node.ForEach(func(_, value gjson.Result) bool {
			walkNode(value, decoded, pools)
			return true
		})
	case node.Type == gjson.String:
		// Some specs encode JSON in strings (e.g. attributes: "{\"blueprintUrl\": ...}")
		inner, ok := decodeEmbedded(node.Str)
		if !ok {
			return
		}
		inspectDecoded(inner, pools)
		walkNode(inner, true, pools)
	}
}

// classify sorts a text/url pair into the matching candidate pool
func classify(text, url string, decoded bool, pools *candidatePools) {
	switch strings.ToLower(text) {
	case "view github":
		pools.primary = append(pools.primary, candidate{tierPrimary, url})
	case "download blueprint", "download now":
		pools.download = append(pools.download, candidate{tierDownload, url})
	case "deploy local":
		if decoded {
			// Inside decoded nodes only GitHub-hosted deploy links count,
			// promoted one tier.
			if strings.Contains(url, "github.com") {
				pools.deploy = append(pools.deploy, candidate{tierDownload, url})
			}
			return
		}
		pools.deploy = append(pools.deploy, candidate{tierDeploy, url})
	case "deploy on cloud":
		pools.deploy = append(pools.deploy, candidate{tierDeploy, url})
	}
}

// inspectDecoded applies the call-to-action refinements to a node decoded
// from a string leaf: cta/secondaryCta link pairs, their menu entries, and
// the node's blueprintUrl, which is suppressed entirely when either
// call-to-action is a "notify when available" placeholder.
func inspectDecoded(node gjson.Result, pools *candidatePools) {
	notifyWhenAvailable := false

	for _, key := range []string{"cta", "secondaryCta"} {
		cta := node.Get(key)
		if !cta.IsObject() {
			continue
		}

		ctaText := cta.Get("text")
		if ctaText.Type == gjson.String && strings.EqualFold(ctaText.Str, "notify when available") {
			notifyWhenAvailable = true
		}

		menu := cta.Get("menu")
		if menu.IsArray() {
			menu.ForEach(func(_, item gjson.Result) bool {
				if !item.IsObject() {
					return true
				}
				itemText := item.Get("text")
				itemURL := item.Get("url")
				if itemText.Type != gjson.String || itemURL.Type != gjson.String {
					return true
				}
				switch strings.ToLower(itemText.Str) {
				case "view github":
					pools.primary = append(pools.primary, candidate{tierPrimary, itemURL.Str})
				case "download blueprint", "download now":
					pools.download = append(pools.download, candidate{tierDownload, itemURL.Str})
				case "deploy local":
					// Menu entries take deploy links unconditionally.
					pools.deploy = append(pools.deploy, candidate{tierDownload, itemURL.Str})
				}
				return true
			})
		}

		ctaURL := cta.Get("url")
		if ctaText.Type == gjson.String && ctaURL.Type == gjson.String {
			classify(ctaText.Str, ctaURL.Str, true, pools)
		}
	}

	blueprintURL := node.Get("blueprintUrl")
	if blueprintURL.Type == gjson.String && !notifyWhenAvailable {
		pools.blueprint = append(pools.blueprint, blueprintURL.Str)
	}
}

// decodeEmbedded speculatively re-parses a string leaf as a JSON object
func decodeEmbedded(s string) (gjson.Result, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") || !json.Valid([]byte(trimmed)) {
		return gjson.Result{}, false
	}
	inner := gjson.Parse(trimmed)
	if !inner.IsObject() {
		return gjson.Result{}, false
	}
	return inner, true
}

// selectURL picks the winning candidate once the walk is complete: highest
// non-empty pool in primary > download > deploy order, ties broken by
// priority descending then URL ascending so the result is independent of
// traversal order. The blueprint pool is a first-discovered fallback.
func (p *candidatePools) selectURL() (string, bool) {
	for _, pool := range [][]candidate{p.primary, p.download, p.deploy} {
		if len(pool) == 0 {
			continue
		}
		ordered := slices.Clone(pool)
		slices.SortFunc(ordered, func(a, b candidate) int {
			if a.priority != b.priority {
				return b.priority - a.priority
			}
			return strings.Compare(a.url, b.url)
		})
		return ordered[0].url, true
	}

	if len(p.blueprint) > 0 {
		return p.blueprint[0], true
	}

	return "", false
}
