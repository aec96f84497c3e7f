// Package catalog loads the action catalog and the property type registry
// from definition files.
//
// Two formats are accepted, HCL (*.hcl) and TOML (*.toml). Both are decoded
// into the same format-agnostic Document first, and Build turns a Document
// into the action.Catalog and property.Registry the engine consumes. A definition that
// does not hold together, such as a default outside its type's range or a
// formula naming an unknown column, fails the load rather than surfacing
// later as an invalid recipe.
//
// A minimal HCL catalog:
//
//	property_type "step_duration" {
//	  kind         = "float32"
//	  units        = "s"
//	  min          = 0
//	  non_negative = true
//	}
//
//	property_type "comment" {
//	  kind       = "text"
//	  max_length = 255
//	}
//
//	common_column "step_duration" {
//	  type    = "step_duration"
//	  default = 10
//	}
//
//	common_column "comment" {
//	  type = "comment"
//	}
//
//	action "wait" {
//	  id              = 1
//	  deploy_duration = "long_lasting"
//	  service         = "wait"
//	}
//
// Every action implicitly receives the action selector column, whose default
// is the action's own id, followed by the common columns and then its own.
// An action overrides a common column's default by redeclaring the column
// with the same type.
package catalog
