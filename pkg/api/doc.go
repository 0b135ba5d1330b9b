/*
Package api defines the wire types shared by the Potluck HTTP handlers and
any Go consumers of the service. Every request and response body exchanged
over the REST surface is declared here so that server and client code agree
on field names and shapes.
*/
package api
