// Package bytecode describes the class file instruction set and converts
// between raw code arrays and decoded instructions.
//
// The package has three parts:
//
//   - Opcodes: the complete instruction set (0x00-0xC9) with mnemonics and
//     operand layouts, looked up through GetOpcodeInfo.
//
//   - Decoder: Decode turns a method's code array into Instructions, each
//     tagged with the byte offset it was read from. Branch offsets stay
//     relative to that offset, exactly as encoded, so an interpreter can
//     resolve a branch by adding it to the instruction's Offset and finding
//     the instruction at the resulting position. Listing renders decoded
//     instructions the way javap -c does.
//
//   - Assembler: builds code arrays with symbolic labels, choosing short
//     encodings (iconst_<n>, bipush, sipush) and wide prefixes where needed.
//     Tools and tests use it instead of hand-written byte slices.
//
// Variable-length instructions (tableswitch, lookupswitch) are padded so
// their first operand starts at a multiple of four bytes from the start of
// the code array; both the decoder and the assembler account for this.
package bytecode
