package diagnostic

import "fmt"

// Diagnostic codes.
const (
	CodeNoConstructor       = "PN0001"
	CodeCircularDependency  = "PN0002"
	CodeMissingSourceMember = "PN1001"
	CodeInvalidMemberConfig = "PN2001"
	CodeMissingSourceType   = "PN2002"
	CodeBlockedDependency   = "PN2003"
	CodeLossyConversion     = "PN2004"
)

// NoConstructorMessage formats the PN0001 message for a target type.
func NoConstructorMessage(typeName string) string {
	return fmt.Sprintf("The type %s must have a single constructor, or a parameterless constructor "+
		"or a constructor marked with //projector:constructor", typeName)
}

// CircularDependencyMessage formats the PN0002 message for a target type.
func CircularDependencyMessage(typeName string) string {
	return fmt.Sprintf("The type %s has circular dependencies and thus cannot be projected", typeName)
}

// LossyConversionMessage formats the PN2004 message for a numeric conversion.
func LossyConversionMessage(from, to string) string {
	return fmt.Sprintf("converting %s to %s may lose precision or sign", from, to)
}
