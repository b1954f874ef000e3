// Package ir provides the scalar value and row types shared by every
// layer of the query engine.
//
// This package contains data types only. All other internal packages
// import ir; ir imports nothing internal. This keeps ir the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - Value is a sealed sum type: Null, String, Int, Float
//   - Conversions are explicit (AsString, AsInt, AsFloat) and fail with
//     TypeMismatchError instead of defaulting
//   - Strings are NFC normalized on construction and in canonical JSON
//   - Null never equals anything, including Null
package ir
