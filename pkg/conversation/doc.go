// Package conversation turns a sequence of role-tagged turns into a model
// specific prompt.
//
// A Builder is bound to one template at a time, either looked up by name in a
// templates.Store or set directly with SetCustomTemplate. The template's
// family decides how turns are rendered:
//
// - plain families concatenate formatted strings
// - llama-2-chat drops the duplicated " [INST]" marker of the first user turn
// - alpaca switches to the input sub-template when an input is supplied
// - openai keeps role/content records that are returned as-is
//
// A Builder is not safe for concurrent use.
package conversation
