// Package request builds the canned inventory statements behind the
// "find" commands.
//
// Each Find type collects optional filter sets. Empty sets impose no
// restriction; non-empty sets become WHERE memberships, so every filter
// narrows the result independently. Statements are produced through
// queryir.Builder and are therefore validated like parsed queries.
package request
