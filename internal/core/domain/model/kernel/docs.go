// Package kernel holds the value objects shared by every aggregate of the
// marketplace: identifiers, money, actors, and the cities and campuses the
// delivery network serves.
//
// All kernel types are immutable. Constructors validate their input and the
// zero values of UUID and Actor fail Validate, so aggregates can reject
// values that were never built through a constructor.
package kernel
