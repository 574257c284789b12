// Package printing turns delivery notes into PDF files.
//
// DeliveryNoteTemplate produces an HTML document with one 794x1123px block
// per page, ChromedpRenderer prints it on A4 paper through a headless
// Chrome, and FileSystemStorage keeps the result under
// {base}/{tenant}/{yyyy}/{mm}/{id}.pdf.
package printing
