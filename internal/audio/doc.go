// Package audio decodes synthesized PCM payloads and plays them through the
// system audio device using the oto/v3 library.
package audio
