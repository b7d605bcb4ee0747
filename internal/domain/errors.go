package domain

import "errors"

// ErrUnknownEntity - операция сослалась на уничтоженный или никогда не созданный ID.
// Вызывающий код обычно обрабатывает её локально.
var ErrUnknownEntity = errors.New("unknown entity")
