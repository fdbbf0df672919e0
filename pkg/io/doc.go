// Package io reads and writes the declaration model and diagram artifacts.
//
// # JSON Format
//
// The model exchange format is a JSON array with one object per source file:
//
//	[
//	  {
//	    "fileName": "/work/src/ninja.ts",
//	    "classes": [
//	      {
//	        "kind": "class",
//	        "name": "Ninja",
//	        "id": "\"/work/src/ninja\".Ninja",
//	        "properties": [
//	          {"name": "weapons", "type": "Weapon[]", "typeIds": ["\"/work/src/weapon\".Weapon"]}
//	        ],
//	        "heritage": [
//	          {"clause": "Person", "clauseTypeId": "...", "className": "Ninja", "classTypeId": "...", "type": "extends"}
//	        ]
//	      }
//	    ],
//	    "interfaces": [],
//	    "types": [],
//	    "enums": [{"kind": "enum", "name": "Gender", "id": "...", "items": ["Male", "Female"]}]
//	  }
//	]
//
// Any producer that writes this format can feed the diagram pipeline, which
// is how sources other than TypeScript are supported.
//
// # Import
//
// Use [ImportJSON] to read a model from a path or URL, or [ReadJSON] to read
// from any io.Reader. Both validate the model with [model.Validate].
//
// # Export
//
// Use [ExportJSON] to write a model, or [WriteJSON] to write to any
// io.Writer. [WriteArtifact] stores rendered documents (DSL text, SVG).
//
// # Storage
//
// Paths and URLs go through github.com/viant/afs, so local files, mem://
// URLs in tests and the object stores afs supports are handled alike.
// Relative local paths are resolved against the working directory.
package io
