// Package synth generates sound effects for words with the Gemini
// text-to-speech model and retries calls that were rate limited.
package synth
