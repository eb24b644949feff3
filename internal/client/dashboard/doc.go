// Package dashboard holds the state of the authenticated area: the active
// tab, credential settings, the pending upload and its progress, usage and
// conversion history, and the transient notice line.
//
// Like the OTP flow it is network-free. Actions are split into a Begin step
// that checks local preconditions and an Apply step that folds a response
// back in.
package dashboard
