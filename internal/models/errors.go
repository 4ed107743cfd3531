package models

import "errors"

var (
	// ErrItemNotFound возвращается, если позиция с указанным идентификатором отсутствует.
	ErrItemNotFound = errors.New("item not found")
	// ErrUserNotFound возвращается, если пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken возвращается при регистрации с уже занятым адресом.
	ErrEmailTaken = errors.New("email already registered")
)
