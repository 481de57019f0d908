/* Package atlast implements ATLAST, an embeddable Forth-dialect
tokenizer-compiler-executor meant to be linked into a host application so the
host can expose its own operations as new dictionary words and drive the
engine programmatically.

ATLAST descends from the small embeddable Forths that shipped linked into
CAD and simulation tools: a single flat heap carries both compiled word
bodies and user data, addresses are plain integers into that heap, and the
dictionary is a singly linked chain of headers living in the same heap. A
host links the package in, calls PrimDef to register its own primitive
words, and then feeds it text through Eval or Load.

Section 1: see interp.go for the instance record and the regions it owns.

Section 2: see scanner.go for how a line of text becomes tokens,
dictionary.go for how a token becomes a dictionary entry (or a forgotten
one), compiler.go for how a token becomes compiled threaded code, and vm.go
for how that threaded code runs.

Section 3: see host.go for the embedding contract: Init, PrimDef, Lookup,
Exec, VarDef, Body and Break, and markunwind.go for Mark and Unwind.

The file-I/O word set, the math word set, the SYSTEM escape, number
formatting, and the console prompt loop are deliberately not implemented
here: they are leaf primitives wrapping host facilities with no design depth
of their own. cmd/atlast demonstrates wiring a few of them back in as a
host: FLOAD, BYE, .R and a prompt loop.
*/
package atlast
