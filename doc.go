/*
Package qrs_client provides a dynamic client for the Qlik Sense Repository Service (QRS) REST API.

Instead of hand-written wrappers, endpoints are registered at runtime as named methods, either one
by one or in bulk from an endpoint schema file. Method names are derived from the verb and path, so
"GET /qrs/app/{id}/export" becomes "getAppIdExport". Every method owns a copy of the connection
configuration and sends exactly one HTTPS request per invocation, authenticated by a client
certificate and protected by an xrfkey token.

The main entry point is QRSRest, created from a QRSConfig with NewQRSRest and populated with
Initialize, ImportFile or ImportOpenAPI.
*/
package qrs_client
