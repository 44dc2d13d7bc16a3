// Package include resolves Include elements before a render pass.
//
// The renderer is synchronous and cannot wait on I/O, so every Include in a
// tree is replaced by the text of the file it names before rendering starts:
//
//	tree, err := include.Resolve(ctx, tree, targetDir)
//	if err != nil {
//	    return err
//	}
//	res, err := render.Render(tree, compCtx)
//
// Siblings are resolved concurrently and results are gathered by position,
// so the output order always matches the input order. The first failure
// cancels the remaining work and no partial tree is returned.
//
// Files are read through a Source. DirSource reads the local filesystem,
// FSSource reads any fs.FS, and S3Source reads objects from a bucket.
package include
