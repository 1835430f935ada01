// File: internal/services/document/metadata.go
package document

// Historically-added alias fields. One canonical value is resolved per
// logical field and then written through every alias so any reader sees the
// same value.
var (
	titleAliases   = []string{"title", "fileTitle", "documentTitle", "displayTitle"}
	summaryAliases = []string{"summary", "description", "displaySummary"}
	versionAliases = []string{"version"}
)

// firstNonEmpty returns the first non-empty string value found in meta under
// any of the given keys.
func firstNonEmpty(meta map[string]any, keys []string) string {
	for _, key := range keys {
		if v, ok := meta[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// resolveTitle applies the precedence chain: explicit field, metadata alias,
// filename.
func resolveTitle(explicit string, meta map[string]any, filename string) string {
	if explicit != "" {
		return explicit
	}
	if v := firstNonEmpty(meta, titleAliases); v != "" {
		return v
	}
	return filename
}

func resolveSummary(explicit string, meta map[string]any) string {
	if explicit != "" {
		return explicit
	}
	return firstNonEmpty(meta, summaryAliases)
}

func resolveVersion(explicit string, meta map[string]any) string {
	if explicit != "" {
		return explicit
	}
	return firstNonEmpty(meta, versionAliases)
}

// backfillAliases writes each resolved value through all of its aliases.
// Empty values clear nothing; clearing goes through clearAliases.
func backfillAliases(meta map[string]any, title, summary, version string) {
	if title != "" {
		for _, key := range titleAliases {
			meta[key] = title
		}
	}
	if summary != "" {
		for _, key := range summaryAliases {
			meta[key] = summary
		}
	}
	if version != "" {
		for _, key := range versionAliases {
			meta[key] = version
		}
	}
}

// clearAliases removes a logical field and every alias from meta.
func clearAliases(meta map[string]any, aliases []string) {
	for _, key := range aliases {
		delete(meta, key)
	}
}

// copyMetadata shallow-copies an open metadata object, never returning nil.
func copyMetadata(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
