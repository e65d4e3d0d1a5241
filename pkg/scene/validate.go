package scene

import "fmt"

// ValidateName checks a node name. Names are non-empty sequences of
// letters, digits, underscores and path separators ('|'), optionally
// ending in a single '#' uniquing placeholder the engine expands on
// creation or rename.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("node name is empty")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '#' {
			if i != len(name)-1 {
				return fmt.Errorf("node name %q: '#' is only valid as a trailing placeholder", name)
			}
			continue
		}
		if !isNameChar(c) {
			return fmt.Errorf("node name %q: invalid character %q", name, c)
		}
	}
	if name == "#" {
		return fmt.Errorf("node name %q has no base before the placeholder", name)
	}
	return nil
}

// ValidateAttrName checks an attribute short name, allowing a trailing
// multi index ("attr[3]").
func ValidateAttrName(attr string) error {
	base, _, err := SplitIndex(attr)
	if err != nil {
		return err
	}
	if base == "" {
		return fmt.Errorf("attribute name is empty")
	}
	for i := 0; i < len(base); i++ {
		if c := base[i]; !isAttrChar(c) {
			return fmt.Errorf("attribute name %q: invalid character %q", attr, c)
		}
	}
	return nil
}

// ValidateAddress checks a full "node.attribute" address.
func ValidateAddress(addr string) error {
	node, attr, err := SplitAddr(addr)
	if err != nil {
		return err
	}
	if err := ValidateName(node); err != nil {
		return err
	}
	return ValidateAttrName(attr)
}

func isNameChar(c byte) bool {
	return c == '_' || c == '|' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isAttrChar(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
