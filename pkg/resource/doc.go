// Package resource defines the typed resource model consumed by the
// generation engine: Templates, Kustomizations, Clusters, and their
// supporting value types.
//
// The model is pure data. Templates are immutable once loaded and may be
// shared by any number of Clusters; a Cluster opts in to a Template by
// listing it under templates, and absence means fully disabled rather
// than "use defaults".
//
// Substitution and dependency references are modelled as explicit sum
// types (an interface plus variant structs) so that every consumption
// site switches exhaustively over the known variants.
package resource
