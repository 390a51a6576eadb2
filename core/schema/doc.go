/*
Package schema defines the document model for declarative jude schemas.

A schema document is a YAML mapping whose keys name a definition kind and a
definition name:

	Import: [common.yaml, sensors.yaml]

	Constant MAX_PEOPLE: 100

	Class default:
	  auth: { read: Public, write: Admin }

	Enum Status:
	  Active: 0
	  Inactive: { value: 1, description: Not in use }

	Bitmask Flags:
	  Dirty: 0
	  Locked: 3

	Object Person:
	  name: string:32
	  age: { type: u8, max: 150 }
	  status: Status
	  tags[4]: string:16
	  reset(): bool

	Database Site:
	  owner: Person
	  people[MAX_PEOPLE]: { type: Person, auth: { create: Admin } }

# Field Names

A field name is a bare identifier, optionally followed by one suffix:

  - name[N]:  repeated field holding at most N elements (N is a number or a Constant)
  - name():   action field, a non-persistent trigger

# Field Bodies

A field body is either a bare type name (`age: u8`) or a mapping of attributes
(`age: { type: u8, min: 0 }`). Parse turns both into a FieldBody once so the
resolver never has to sniff shapes again.

# Permissions

Read/write levels (and create/read/update/delete for database entries) are one of
Public, Admin or Root. They are given as a single level for every verb
(`auth: Admin`) or per verb (`auth: { read: Public, write: Root }`).

# Errors

All definition problems are reported with the typed errors in errors.go so
callers can match them with errors.As.
*/
package schema
