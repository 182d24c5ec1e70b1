/* Package main: morth, a small threaded Forth

morth reads whitespace separated tokens, one line at a time, and either
executes or compiles each of them. A token names a word in the dictionary,
or else it must be a numeral in the current base (10 unless -base says
otherwise); a numeral is pushed onto the data stack, or compiled as a
literal while a definition is open.

Values are 32-bit signed cells. Double cell words (d+, d/, d< and so on)
treat two cells as one 64-bit value, with the low cell pushed first and the
high cell on top.

The dictionary starts with the primitive words:

	+ - * / %          arithmetic; division by zero is an error
	> < not or and     comparisons and logic, leaving 1 or 0
	d+ d- d* d/ d%     double cell arithmetic; d% is a true modulo
	d> d<              double cell comparisons, leaving a single cell
	dup pop swap over rot
	alloc free         take and return cells of the memory bank
	read write         ( addr -- v ) and ( addr v -- )
	jmp jmpz literal   control flow inside compiled words
	: ; immediate      defining words
	' execute advance  word indices and input skipping
	. bye              print with "ok", and halt

A composite word is defined by ":" followed by its name and body, up to
";". Its body is a list of dictionary indices; running it pushes a frame
onto the return stack for each entry, so that jmp and jmpz can move the
caller to another position of its own body. Positions count body entries,
where each compiled numeral takes two:

	: countdown dup 11 swap jmpz 1 - 0 jmp ;
	5 countdown .
	0 ok

Text inside parentheses is skipped, nesting and spanning lines as needed.

Errors are reported as "ERROR: <code> <message>" and abandon the rest of
the line: the return stack is cleared and any open definition is left as
compiled so far. The data stack keeps whatever was on it.

*/
package main
