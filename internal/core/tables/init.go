// Package tables registers the importable table descriptors with the core
// registry. Import it for its side effect:
//
//	import _ "github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core/tables"
//
// Registration order is detection priority: on a score tie, and for sheet-name
// matches, the earlier descriptor wins.
package tables

import "github.com/SamTusick/Switch4Good-DataBaseSystem/internal/core"

func init() {
	RegisterAll(core.DefaultRegistry())
}

// Descriptors returns every descriptor in registration order.
func Descriptors() []core.TableDescriptor {
	return []core.TableDescriptor{
		universities,
		semesters,
		staff,
		programs,
		courses,
		students,
		partnerships,
		projects,
		outreachContacts,
	}
}

// RegisterAll adds every descriptor to r, panicking on a conflict.
func RegisterAll(r *core.Registry) {
	for _, d := range Descriptors() {
		r.MustRegister(d)
	}
}

// headers builds a header map from header, field pairs.
func headers(pairs ...string) []core.HeaderMapping {
	if len(pairs)%2 != 0 {
		panic("tables: headers needs header, field pairs")
	}
	out := make([]core.HeaderMapping, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, core.HeaderMapping{Header: pairs[i], Field: pairs[i+1]})
	}
	return out
}
