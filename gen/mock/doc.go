// Package mock provides test doubles for the gen package interfaces.
package mock
