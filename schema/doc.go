/*
Package schema models the expected shape of documented JSON payloads.

# Overview

A [PropertyType] describes one field without reference to any value: a
primitive kind, a collection of some element type, or an object that either
names a resource in the registry or carries an inline member list captured
from an example. A [PropertyDefinition] pairs a type with its name, whether
it is required and its documented description.

A [Schema] is the expected field set of one resource. Schemas are built in
two ways:

  - [FromResource] builds a named schema from a [Resource] declaration: the
    example is inferred, property table descriptors are overlaid and every
    ancestor reachable through BaseType is folded in (derived properties win).
  - [FromExample] infers an ad hoc schema from a single example, used when the
    documentation declares no resource of that name.

# Inference

Example values are templates, not data. A string value of "timestamp" marks
a date-time property and "a | b | c" marks an enumerated one (see
[SniffFormat]). Objects carrying an "@odata.type" discriminator become named
references. Arrays are typed from their members, empty arrays are generic
collections and null values assume nothing at all.

# Polymorphism

Subtypes are registered on their base schemas with [Schema.RegisterChild].
[Schema.Dispatch] resolves a discriminator value to a closed set of outcomes:
the schema itself, a registered child, or an unknown type.
*/
package schema
