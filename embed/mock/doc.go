// Package mock provides test doubles for the embed package interfaces.
package mock
