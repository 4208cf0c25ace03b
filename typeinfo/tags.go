package typeinfo

type tagOptions struct {
	name        string
	ignored     bool
	includeNull bool
	omitEmpty   bool
}

// parseJSONTag reads `json:"name,opt,..."`. A bare "-" ignores the field;
// "-," names it "-".
func parseJSONTag(tag, defaultName string) tagOptions {
	opts := tagOptions{name: defaultName}
	if tag == "" {
		return opts
	}
	if tag == "-" {
		opts.ignored = true
		return opts
	}
	parts := splitTag(tag)
	if parts[0] != "" {
		opts.name = parts[0]
	}
	for _, p := range parts[1:] {
		switch p {
		case "nullable":
			opts.includeNull = true
		case "omitempty":
			opts.omitEmpty = true
		}
	}
	return opts
}

func splitTag(tag string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(tag); i++ {
		if tag[i] == ',' {
			parts = append(parts, tag[start:i])
			start = i + 1
		}
	}
	parts = append(parts, tag[start:])
	return parts
}
