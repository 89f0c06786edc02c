/*
Package gconf implements a configuration store intended to be used as an
in-database configuration of each extension.

Configuration is read from the genesis file under the "conf" key, validated
and saved once. Extensions load it from the store whenever they need it.
There is no message that updates a saved configuration.
*/
package gconf
