// Package response normalises search endpoint payloads.
//
// Payloads are decoded as untyped JSON and matched against a priority-ordered
// list of shapes:
//
//   - documents (100): a flat documents list of {acquisition_id, second, link}
//   - items (90): an items list; each item embeds per-second photos, a link
//     list, or a single link
//   - generic (1): the first of documents, results or images, scanned with
//     every alias
//
// Every field is read with an explicit default. Normalisation never fails:
// malformed or unrecognised payloads produce an empty page.
package response
