package logger

// Rule names the filter step that decided a message's fate.
type Rule uint8

const (
	// RuleGlobal means no override matched and the accept level decided
	RuleGlobal Rule = iota
	// RuleTag is the per-tag override
	RuleTag
	// RuleModule is the per-module override
	RuleModule
	// RuleModuleTag is the per-module-per-tag override
	RuleModuleTag
)

// String returns the string representation of the rule
func (r Rule) String() string {
	switch r {
	case RuleGlobal:
		return "global"
	case RuleTag:
		return "tag"
	case RuleModule:
		return "module"
	case RuleModuleTag:
		return "module-tag"
	default:
		return "unknown"
	}
}

// Decision is the outcome of filtering one message.
type Decision struct {
	// Forward is true when the message reaches the sink
	Forward bool
	// Module is the module derived from the file identifier
	Module string
	// Rule is the override that rejected the message, or the last override
	// it cleared; RuleGlobal when no override matched.
	Rule Rule
}
