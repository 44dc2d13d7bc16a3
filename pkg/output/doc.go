// Package output turns a render result into the files a target agent reads
// and writes them somewhere.
//
// The layout table lives here: where an agent expects its main instructions
// document, skills and plugin manifests. Assemble maps a render.Result onto a
// flat list of files for a Profile, and a Writer puts those files on disk
// (DiskWriter) or in a bucket (S3Writer).
//
//	result, _ := render.Render(tree, ctx)
//	files := output.Assemble(result, output.ProfileFor(ctx.AgentName))
//	err := output.NewDiskWriter(output.DiskConfig{Root: ctx.TargetDirectory}).Write(context.Background(), files)
package output
