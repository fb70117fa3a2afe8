// Package output renders command results as plain text, YAML or JSON.
//
// Every result type implements Texter for the human-oriented text format;
// YAML and JSON marshal the same struct, so both carry identical keys.
//
//   - GenerateOutput: one generation run (generate, icodetest_generate_*)
//   - MethodsOutput: candidate methods of a class (methods)
//   - SettingsOutput: the active generator settings (settings show)
package output
