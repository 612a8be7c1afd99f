// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"github.com/lhwgwg/framework/internal/cast"
	"github.com/lhwgwg/framework/internal/model"
)

// Column names of the encrypted_casts table.
const (
	SecretColumn           = "secret"
	SecretArrayColumn      = "secret_array"
	SecretJSONColumn       = "secret_json"
	SecretObjectColumn     = "secret_object"
	SecretCollectionColumn = "secret_collection"
)

// EncryptedCasts is the encrypted_casts table: one encrypted column per
// cast sub-kind. The schema lives in the migrations package.
var EncryptedCasts = model.NewDefinition("encrypted_casts",
	model.Encrypted(SecretColumn, cast.KindPlain, 1000),
	model.Encrypted(SecretArrayColumn, cast.KindArray, 0),
	model.Encrypted(SecretJSONColumn, cast.KindJSON, 0),
	model.Encrypted(SecretObjectColumn, cast.KindObject, 0),
	model.Encrypted(SecretCollectionColumn, cast.KindCollection, 0),
)
