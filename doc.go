// Package animio is the Composition Root for the animio library.
//
// It connects the curve exchange core (pkg/core) with the document codec and
// scene stores (pkg/adapters) using the Hexagonal Architecture pattern.
//
// Philosophy:
//
// An animation action is a set of keyframe channels. animio moves actions in
// and out of a host as a flat JSON (or YAML) document so other tools can edit
// them, and reconciles the edited document back into the host without losing
// the channels it does not mention.
//
// Features:
//
//   - **Export**: writes the active action of an object, baking sampled channels
//     back to keyframes for the duration of the write only.
//   - **Import**: three policies. "action" builds a fresh action, "replace"
//     overwrites the channels named by the document, "merge" inserts into them.
//   - **Filters**: replace and merge can be restricted to channel keys or
//     data path patterns.
//   - **Validation first**: a document is checked as a whole before the host
//     is touched; every problem is reported with its location.
//   - **Scene stores**: a reference host persisted as YAML/JSON or SQLite.
//
// Usage:
//
//	svc, err := animio.New(animio.WithLogger(logger))
//
//	store, err := animio.OpenScene(ctx, "scene.yaml")
//	sc, err := store.Load(ctx)
//	obj, _ := sc.Object("Cube")
//
//	// Export the active action
//	err = svc.Export(ctx, obj, "cube.json")
//
//	// Merge an edited document back
//	res, err := svc.MergeCurves(ctx, obj, "cube.json", core.PathPatterns{"location"})
//	err = store.Save(ctx, sc)
package animio
