// Package pattern implements the inflection pattern language.
//
// An inflection pattern is literal text mixed with placeholders:
//
//	{~}      the lemma (term) itself
//	{name}   the value of the stem called name, or the lemma if no such stem exists
//	{{ }}    a literal '{' or '}'
//
// Compilation never fails. Anything that does not match the placeholder or
// escape syntax, such as "{}" or a lone brace, is copied to the output as is.
// The same scanner drives both Compile and CollectStems, so the set of stems a
// pattern references is always exactly the set Compile would look up.
package pattern
