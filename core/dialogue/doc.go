// Package dialogue defines the typed events extracted from an assistant's
// streamed response.
//
// Event kinds:
//
//   - SkillCheck (dialogue.skill_check): one inner voice speaking, carrying a
//     canonical skill, a difficulty tier, the check outcome and the line itself.
//   - ContextUpdate (dialogue.context_update): a fact the assistant wants
//     remembered across conversations.
//
// Semantics used across the package:
//
//   - Canonical: an identifier matched against the fixed vocabulary,
//     independent of casing or the language the model answered in.
//   - Passthrough: a raw identifier that did not match the vocabulary. It is
//     kept verbatim and is never an error.
//   - Absent category: the empty Category. Only canonical skills belong to a
//     category.
//
// Events are plain values. Once produced they are never mutated; copies are
// handed to every consumer.
package dialogue
