package domain

// KeyPrefix namespaces every store key written by the repositories.
const KeyPrefix = "pazar:"
