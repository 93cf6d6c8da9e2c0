// Package codegen turns a blocks.Tree into quanta assembly text.
//
// A call to Generate is one pass: it names the workspace variables, walks
// every root chain in order, renders each block through the emitter for its
// shape and finally prepends the collected definitions. Value inputs are
// rendered through a small precedence model (Order) that decides where
// parentheses are needed, and index operands go through the adjustment
// rules of (*pass).adjusted.
//
// The tree is never modified and all pass state lives in a pass value, so
// independent passes may run concurrently.
package codegen
