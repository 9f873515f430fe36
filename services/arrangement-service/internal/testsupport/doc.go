// Package testsupport provides in-memory implementations of the repository,
// messaging and handoff ports for package tests.
package testsupport
