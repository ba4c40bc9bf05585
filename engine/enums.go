package engine

// Hook stage of the plugin pipeline.
// ENUM(patterns, parse, value, variant, utility, class, emit)
type Stage int

// Form of a utility definition.
// ENUM(direct, constrained, function)
type UtilityKind int

// Form of a variant definition.
// ENUM(template, function)
type VariantKind int

// Shape of a function-form utility outcome.
// ENUM(none, text, declaration, many, fail)
type OutcomeKind int

// Kind of resolved rule.
// ENUM(simple, raw, many)
type RuleKind int
