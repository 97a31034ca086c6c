// Package scenario runs regression archives against the validator.
//
// An archive is a txtar file. Its resources.yaml member declares resources
// and checks; every other member is a payload or a resource example:
//
//	A resource with a required id.
//
//	-- resources.yaml --
//	resources:
//	  - name: test.item
//	checks:
//	  - name: numeric id
//	    payload: numeric-id.json
//	    annotation:
//	      resourceType: test.item
//	    wantCodes: [ExpectedTypeDifferent]
//	-- test.item.json --
//	{"id": "string"}
//	-- numeric-id.json --
//	{"id": 1}
//
// A check passes when the issue codes produced match wantCodes exactly, in
// report order.
package scenario
