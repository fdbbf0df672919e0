// Package model defines the declaration model that every diagram is built
// from.
//
// # Overview
//
// A model is a list of [FileDeclaration] values, one per analyzed source
// file, each holding the classes, interfaces, type aliases and enums declared
// in that file. All four kinds share a single [Declaration] struct tagged with
// a [Kind]; enum-only and member-only fields are simply empty for kinds that
// do not use them.
//
// Every declaration carries a type id that is unique across the analyzed
// set. Ids have the form
//
//	"<dir>/<basename-without-extension>".<LocalName>
//
// and are built with [NewID]. The quoted prefix is what [Declaration.RelativeFilePath]
// uses to locate the declaring source file when rendered diagrams are linked
// back to code.
//
// # Lifecycle
//
// A model is produced once by an extractor (see package extract) or read from
// JSON (see package io), augmented once by the association resolver, and is
// read-only afterwards. Read-only models may be rendered into several notations
// concurrently.
//
// # JSON
//
// All types carry JSON tags so that producers written in other languages can
// hand a model to the renderer:
//
//	[{
//	  "fileName": "src/katana.ts",
//	  "classes": [{
//	    "kind": "class",
//	    "name": "Katana",
//	    "id": "\"src/katana\".Katana",
//	    "properties": [{"name": "damage", "type": "number", "modifiers": ["public"]}],
//	    "heritage": [{"clause": "Weapon", "clauseTypeId": "\"src/weapon\".Weapon",
//	                  "className": "Katana", "classTypeId": "\"src/katana\".Katana",
//	                  "type": "implements"}]
//	  }]
//	}]
//
// Use [Validate] at import boundaries to reject structurally invalid input.
package model
