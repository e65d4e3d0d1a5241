package proxy

import "sync"

// The class registry decides which node classes get the transform
// extension and which shorthand property names map onto underlying
// attributes. Hosts with custom node types extend it at startup.

var (
	regMu sync.RWMutex

	transformClasses = map[string]bool{
		"transform": true,
		"joint":     true,
	}

	classAliases = map[string]map[string]string{
		"transform": {
			"ro":           "rotateOrder",
			"rotate_order": "rotateOrder",
			"ra":           "rotateAxis",
			"rotate_axis":  "rotateAxis",
		},
		"joint": {
			"ro":           "rotateOrder",
			"rotate_order": "rotateOrder",
			"ra":           "rotateAxis",
			"rotate_axis":  "rotateAxis",
			"jo":           "jointOrient",
			"joint_orient": "jointOrient",
		},
	}
)

// RegisterTransformClass marks a node class as transform-like. Handles
// wrapped for that class gain the transform extension.
func RegisterTransformClass(class string) {
	regMu.Lock()
	defer regMu.Unlock()
	transformClasses[class] = true
}

// RegisterAliases associates shorthand property names with underlying
// attribute names for a node class. Later registrations extend and
// override earlier ones.
func RegisterAliases(class string, aliases map[string]string) {
	regMu.Lock()
	defer regMu.Unlock()
	m := classAliases[class]
	if m == nil {
		m = make(map[string]string, len(aliases))
		classAliases[class] = m
	}
	for k, v := range aliases {
		m[k] = v
	}
}

func isTransformClass(class string) bool {
	regMu.RLock()
	defer regMu.RUnlock()
	return transformClasses[class]
}

func aliasFor(class, name string) (string, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	target, ok := classAliases[class][name]
	return target, ok
}
