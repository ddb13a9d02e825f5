// Package picture stores images produced during conversations. Tools that
// generate images save the bytes here and put the resulting ids on the final
// answer's image list; serving layers resolve those ids back to bytes.
//
// The Store interface lives in this package because nothing in the
// orchestration core depends on it; only image-producing tools and serving
// code do. Backends (in-memory, object stores) can be swapped without
// touching tool code.
package picture
