// Package fuzztests houses Go fuzz harnesses for the extraction pipeline
// (source -> lexer -> repairing parser -> reference walker). They guard
// against panics, hangs and out-of-bounds ranges on arbitrary input.
//
// Назначение: прогонять произвольные байты через лексер, цикл восстановления
// и обход ссылок.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
package fuzztests
