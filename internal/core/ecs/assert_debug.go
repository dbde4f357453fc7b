//go:build ecsdebug

package ecs

const debugAssertions = true
