// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package models

// Profile defaults applied when a user registers without them.
const (
	DefaultUserName   = "Jacques-Yves Cousteau"
	DefaultUserAbout  = "Explorer"
	DefaultUserAvatar = "https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png"
)

// User is the public view of an account.
//
// Example:
//
//	{
//	  "_id": "01890a5d-ac96-774b-bcce-b302099a8057",
//	  "name": "Jacques-Yves Cousteau",
//	  "about": "Explorer",
//	  "avatar": "https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png",
//	  "email": "jacques@example.com"
//	}
type User struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	About  string `json:"about"`
	Avatar string `json:"avatar"`
	Email  string `json:"email"`
}
